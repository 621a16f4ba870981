package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/ntmanager-backend/internal/adapter/postgres"
)

func migrateCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	withProvider := func(fn func(cmd *cobra.Command, p *goose.Provider) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			provider, db, err := postgres.NewMigrator(cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer db.Close()
			return fn(cmd, provider)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withProvider(func(cmd *cobra.Command, p *goose.Provider) error {
			results, err := p.Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
				return nil
			}
			for _, r := range results {
				printResult(cmd.OutOrStdout(), r)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: withProvider(func(cmd *cobra.Command, p *goose.Provider) error {
			r, err := p.Down(cmd.Context())
			if err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			printResult(cmd.OutOrStdout(), r)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: withProvider(func(cmd *cobra.Command, p *goose.Provider) error {
			statuses, err := p.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("migrate status: %w", err)
			}
			printStatus(cmd.OutOrStdout(), statuses)
			return nil
		}),
	})

	return cmd
}

func printResult(w io.Writer, r *goose.MigrationResult) {
	if r == nil || r.Source == nil {
		return
	}
	fmt.Fprintf(w, "%s %s %s (%s)\n",
		color.New(color.FgGreen).Sprint("OK"),
		r.Direction,
		r.Source.Path,
		r.Duration.Round(time.Millisecond),
	)
}

func printStatus(w io.Writer, statuses []*goose.MigrationStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
	for _, s := range statuses {
		state := color.New(color.FgYellow).Sprint("pending")
		applied := "-"
		if s.State == goose.StateApplied {
			state = color.New(color.FgGreen).Sprint("applied")
			applied = s.AppliedAt.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, state, applied, s.Source.Path)
	}
	tw.Flush() //nolint:errcheck
}
