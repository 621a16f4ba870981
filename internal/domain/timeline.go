package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimelineEntry is a read-only projection of a completed item.
// It is rebuilt from the source item on every reconciliation.
type TimelineEntry struct {
	ItemID          uuid.UUID
	WorkOrderID     uuid.UUID
	WorkOrderNumber string
	ItemNumber      int
	Code            string
	Description     string
	Quantity        string
	Batch           *string
	Status          ItemStatus
	Priority        bool
	Category        Category

	CreatedAt     time.Time
	CompletedAt   time.Time // zero when the payment time could not be parsed
	Resolution    time.Duration
	HasResolution bool
	ElapsedTime   string
	IsDelayed     bool
	UpdatedAt     time.Time
}

// TimelineStats summarizes the current timeline entries.
// Duration fields hold StatsSentinel when no entry has a resolution time.
type TimelineStats struct {
	PaidToday     int
	AvgResolution string
	Fastest       string
	Slowest       string
	Samples       int
}

// StatsSentinel is reported for statistics that cannot be derived.
const StatsSentinel = "—"

// TimeStatus is the display badge of an item.
type TimeStatus struct {
	Text      string
	IsDelayed bool
	Category  Category
}
