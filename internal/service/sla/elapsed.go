package sla

import (
	"time"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// Elapsed returns end - start. A zero start or end yields 0, and so does a
// negative span (completion recorded before creation).
func Elapsed(start, end time.Time) time.Duration {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}

// IsOverSLA reports whether elapsed exceeds the category SLA.
// Elapsed exactly equal to the SLA is not a breach.
func (c *Classifier) IsOverSLA(elapsed time.Duration, cat domain.Category) bool {
	return elapsed > c.SLA(cat)
}

// Overage returns how far elapsed exceeds the category SLA, or 0.
func (c *Classifier) Overage(elapsed time.Duration, cat domain.Category) time.Duration {
	over := elapsed - c.SLA(cat)
	if over < 0 {
		return 0
	}
	return over
}
