package timeline

import (
	"time"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
	"github.com/heartmarshall/ntmanager-backend/internal/service/sla"
)

// Summarize derives timeline statistics from the current entries. It keeps
// no running aggregates; every call recomputes from scratch.
//
// PaidToday counts entries completed on now's calendar day in now's
// location. Resolution statistics only consider entries with a derivable
// resolution time and report domain.StatsSentinel when there are none.
func Summarize(entries []domain.TimelineEntry, now time.Time) domain.TimelineStats {
	stats := domain.TimelineStats{
		AvgResolution: domain.StatsSentinel,
		Fastest:       domain.StatsSentinel,
		Slowest:       domain.StatsSentinel,
	}

	y, m, d := now.Date()
	var (
		total            time.Duration
		fastest, slowest time.Duration
	)
	for _, e := range entries {
		if !e.CompletedAt.IsZero() {
			cy, cm, cd := e.CompletedAt.In(now.Location()).Date()
			if cy == y && cm == m && cd == d {
				stats.PaidToday++
			}
		}

		if !e.HasResolution {
			continue
		}
		if stats.Samples == 0 || e.Resolution < fastest {
			fastest = e.Resolution
		}
		if stats.Samples == 0 || e.Resolution > slowest {
			slowest = e.Resolution
		}
		total += e.Resolution
		stats.Samples++
	}

	if stats.Samples > 0 {
		stats.AvgResolution = sla.FormatDuration(total / time.Duration(stats.Samples))
		stats.Fastest = sla.FormatDuration(fastest)
		stats.Slowest = sla.FormatDuration(slowest)
	}

	return stats
}
