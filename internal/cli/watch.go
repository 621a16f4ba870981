package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/ntmanager-backend/internal/adapter/postgres"
	"github.com/heartmarshall/ntmanager-backend/internal/app"
	"github.com/heartmarshall/ntmanager-backend/internal/domain"
	"github.com/heartmarshall/ntmanager-backend/internal/service/timeline"
)

const clearScreen = "\033[H\033[2J"

func watchCmd(load configLoader) *cobra.Command {
	var noClear bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the live paid-items timeline in the terminal",
		Long: `watch subscribes to the database change feed and redraws the paid-items
timeline on every change and every refresh tick. Press Ctrl+C to exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			// Keep the screen for the timeline; only problems are logged.
			cfg.Log.Level = "warn"
			logger := app.NewLogger(cfg.Log)

			pool, err := postgres.NewPool(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			core, err := app.NewCore(logger, cfg, pool, clockwork.NewRealClock())
			if err != nil {
				return err
			}

			r := &renderer{
				out:   cmd.OutOrStdout(),
				loc:   core.Formatter.Location(),
				clear: !noClear,
			}
			core.Timeline.OnChange(r.render)

			logger.Debug("watching timeline", slog.Int("limit", cfg.Timeline.Limit))
			return core.Timeline.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Append frames instead of redrawing the screen")

	return cmd
}

type renderer struct {
	mu    sync.Mutex
	out   io.Writer
	loc   *time.Location
	clear bool
}

var (
	headerColor  = color.New(color.Bold)
	liveColor    = color.New(color.FgGreen)
	offlineColor = color.New(color.FgRed, color.Bold)
	delayColor   = color.New(color.FgRed)
	onTimeColor  = color.New(color.FgGreen)
	newColor     = color.New(color.FgHiMagenta)
	dimColor     = color.New(color.FgHiBlack)
	categoryTags = map[domain.Category]*color.Color{
		domain.CategoryColdChain: color.New(color.FgCyan),
		domain.CategoryFlammable: color.New(color.FgYellow),
		domain.CategoryStandard:  color.New(color.FgWhite),
	}
)

func (r *renderer) render(v timeline.View) {
	var b strings.Builder
	writeTimeline(&b, v, r.loc)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clear {
		io.WriteString(r.out, clearScreen) //nolint:errcheck
	}
	io.WriteString(r.out, b.String()) //nolint:errcheck
}

func writeTimeline(w io.Writer, v timeline.View, loc *time.Location) {
	status := liveColor.Sprint("live")
	if !v.Connected {
		status = offlineColor.Sprint("disconnected, showing last known data")
	}
	fmt.Fprintf(w, "%s  [%s]\n", headerColor.Sprint("Paid items"), status)
	fmt.Fprintf(w, "paid today: %d   avg: %s   fastest: %s   slowest: %s\n\n",
		v.Stats.PaidToday, v.Stats.AvgResolution, v.Stats.Fastest, v.Stats.Slowest)

	if len(v.Entries) == 0 {
		fmt.Fprintln(w, dimColor.Sprint("No paid items yet."))
		return
	}

	for _, e := range v.Entries {
		fmt.Fprintln(w, entryLine(e, slices.Contains(v.Highlighted, e.ItemID), loc))
	}
}

func entryLine(e domain.TimelineEntry, highlighted bool, loc *time.Location) string {
	at := "--:--"
	if !e.CompletedAt.IsZero() {
		at = e.CompletedAt.In(loc).Format("15:04")
	}

	tag := string(e.Category)
	if c, ok := categoryTags[e.Category]; ok {
		tag = c.Sprint(tag)
	}

	elapsed := onTimeColor.Sprint(e.ElapsedTime)
	if e.IsDelayed {
		elapsed = delayColor.Sprint(e.ElapsedTime + " (late)")
	}

	line := fmt.Sprintf("%s  %s #%d  %s %s  %s  %s  %s",
		at, e.WorkOrderNumber, e.ItemNumber, e.Code, e.Description, e.Quantity, tag, elapsed)
	if e.Priority {
		line += " " + delayColor.Sprint("!")
	}
	if highlighted {
		line += " " + newColor.Sprint("new")
	}
	return line
}
