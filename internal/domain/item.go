package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single material line within a work order.
//
// Dates and times are stored as civil strings in the configured location:
// CreatedDate "DD/MM/YYYY", CreatedTime "HH:MM[:SS]". PaymentTime may be an
// RFC 3339 instant, "DD/MM/YYYY HH:MM[:SS]" or a bare "HH:MM[:SS]" on the
// creation day. PaymentTime is set iff Status is completed.
type Item struct {
	ID          uuid.UUID
	WorkOrderID uuid.UUID
	ItemNumber  int
	Code        string
	Description string
	Quantity    string
	Batch       *string
	Status      ItemStatus
	CreatedDate string
	CreatedTime string
	PaymentTime *string
	Priority    bool
	UpdatedAt   time.Time
}

// Equal reports whether two items carry the same field values.
func (i Item) Equal(o Item) bool {
	return i.ID == o.ID &&
		i.WorkOrderID == o.WorkOrderID &&
		i.ItemNumber == o.ItemNumber &&
		i.Code == o.Code &&
		i.Description == o.Description &&
		i.Quantity == o.Quantity &&
		equalStringPtr(i.Batch, o.Batch) &&
		i.Status == o.Status &&
		i.CreatedDate == o.CreatedDate &&
		i.CreatedTime == o.CreatedTime &&
		equalStringPtr(i.PaymentTime, o.PaymentTime) &&
		i.Priority == o.Priority &&
		i.UpdatedAt.Equal(o.UpdatedAt)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
