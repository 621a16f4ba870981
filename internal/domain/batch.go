package domain

import "time"

// BatchOperation groups many mutations belonging to one bulk action.
type BatchOperation struct {
	ID            string
	Kind          BatchKind
	TargetID      string
	StartedAt     time.Time
	ExpectedCount int // 0 when unknown
	Observed      int
}

// Notification is the single aggregate message emitted when a batch closes,
// or a per-row message outside of any batch.
type Notification struct {
	OperationID string
	Kind        BatchKind
	TargetID    string
	Count       int
	Message     string
	EmittedAt   time.Time
}
