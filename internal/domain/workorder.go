package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkOrder is a technical work order (NT) grouping line items.
// Deleting a work order deletes its items.
type WorkOrder struct {
	ID          uuid.UUID
	Number      string
	CreatedDate string // DD/MM/YYYY
	CreatedTime string // HH:MM[:SS]
	Status      WorkOrderStatus
	CreatedAt   time.Time
}

// WorkOrderRef is the lightweight index record used to resolve a work
// order's display number.
type WorkOrderRef struct {
	ID     uuid.UUID
	Number string
}

// WorkOrderNumberFallback is shown when an item's parent number is unknown.
const WorkOrderNumberFallback = "N/A"
