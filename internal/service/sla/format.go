package sla

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// TextTimeUnavailable is shown when an item's creation time cannot be parsed.
const TextTimeUnavailable = "time unavailable"

// FormatDuration renders a duration in the long form used by the timeline
// and statistics: "now", "1 minute", "N minutes", "Hh Mmin" (minutes
// omitted when zero), "1 day", "N days", "D days and Hh".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	if d < 24*time.Hour {
		return hoursMinutes(d)
	}
	return formatDays(d)
}

// FormatCompact renders a duration for badges. It differs from
// FormatDuration only below one hour, where it reads "Nmin".
func FormatCompact(d time.Duration) string {
	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dmin", int(d/time.Minute))
	}
	if d < 24*time.Hour {
		return hoursMinutes(d)
	}
	return formatDays(d)
}

func formatDays(d time.Duration) string {
	days := int(d / (24 * time.Hour))
	hours := int((d % (24 * time.Hour)) / time.Hour)
	s := fmt.Sprintf("%d days", days)
	if days == 1 {
		s = "1 day"
	}
	if hours > 0 {
		s += fmt.Sprintf(" and %dh", hours)
	}
	return s
}

func hoursMinutes(d time.Duration) string {
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dmin", h, m)
}

// ceilMinute rounds a positive overage up so a breach is never shown as 0min.
func ceilMinute(d time.Duration) time.Duration {
	if r := d % time.Minute; r != 0 {
		return d - r + time.Minute
	}
	return d
}

// Formatter produces item time-status badges against the wall clock.
type Formatter struct {
	classifier *Classifier
	clock      clockwork.Clock
	loc        *time.Location
	log        *slog.Logger
}

// NewFormatter creates a Formatter. Civil strings are read in loc.
func NewFormatter(log *slog.Logger, classifier *Classifier, clock clockwork.Clock, loc *time.Location) *Formatter {
	return &Formatter{
		classifier: classifier,
		clock:      clock,
		loc:        loc,
		log:        log.With("service", "sla"),
	}
}

// Classifier returns the underlying classifier.
func (f *Formatter) Classifier() *Classifier { return f.classifier }

// Location returns the location civil strings are read in.
func (f *Formatter) Location() *time.Location { return f.loc }

// Now returns the current wall-clock time in the formatter's location.
func (f *Formatter) Now() time.Time { return f.clock.Now().In(f.loc) }

// Format computes the badge of an item. A zero completedAt means the
// completion time is absent.
//
// Completed items compare creation to completion and never count as "in
// danger"; a late completion is reported as "<overage> over SLA". Open items
// compare creation to now.
func (f *Formatter) Format(createdAt time.Time, code string, status domain.ItemStatus, completedAt time.Time) domain.TimeStatus {
	cat := f.classifier.Classify(code)
	if createdAt.IsZero() {
		return domain.TimeStatus{Text: TextTimeUnavailable, Category: cat}
	}

	if status.IsCompleted() {
		if completedAt.IsZero() {
			return domain.TimeStatus{Text: "Paid", Category: cat}
		}
		elapsed := Elapsed(createdAt, completedAt)
		if !f.classifier.IsOverSLA(elapsed, cat) {
			return domain.TimeStatus{Text: "Paid " + FormatCompact(elapsed), Category: cat}
		}
		over := ceilMinute(f.classifier.Overage(elapsed, cat))
		return domain.TimeStatus{Text: FormatCompact(over) + " over SLA", IsDelayed: true, Category: cat}
	}

	elapsed := Elapsed(createdAt, f.clock.Now())
	if !f.classifier.IsOverSLA(elapsed, cat) {
		return domain.TimeStatus{Text: FormatCompact(elapsed), Category: cat}
	}
	over := ceilMinute(f.classifier.Overage(elapsed, cat))
	return domain.TimeStatus{Text: FormatCompact(over) + " overdue", IsDelayed: true, Category: cat}
}

// FormatItem parses the item's civil fields and formats its badge.
func (f *Formatter) FormatItem(item domain.Item) domain.TimeStatus {
	created, completed := f.Instants(item)
	return f.Format(created, item.Code, item.Status, completed)
}

// Instants returns the creation and completion instants of an item. Fields
// that cannot be parsed come back as zero and are logged; they never fail
// the caller.
func (f *Formatter) Instants(item domain.Item) (created, completed time.Time) {
	created, err := ParseCivil(item.CreatedDate, item.CreatedTime, f.loc)
	if err != nil {
		f.log.Warn("item creation time unparseable",
			slog.String("item_id", item.ID.String()),
			slog.String("error", err.Error()),
		)
		created = time.Time{}
	}

	if item.PaymentTime != nil && item.Status.IsCompleted() {
		completed, err = NormalizeCompletion(*item.PaymentTime, created, f.loc)
		if err != nil {
			f.log.Warn("item payment time unparseable",
				slog.String("item_id", item.ID.String()),
				slog.String("error", err.Error()),
			)
			completed = time.Time{}
		}
	}

	return created, completed
}
