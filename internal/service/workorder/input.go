package workorder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

const (
	maxItemsPerRequest = 1000
	maxNumberLength    = 50
	maxCodeLength      = 50
	maxDescription     = 500
)

// ItemInput holds the fields of a new item.
type ItemInput struct {
	Code        string
	Description string
	Quantity    string
	Batch       *string
	Priority    bool
}

// CreateWorkOrderInput holds the parameters for creating a work order.
type CreateWorkOrderInput struct {
	Number string
	Items  []ItemInput
}

// Validate checks all fields and collects all errors.
func (i CreateWorkOrderInput) Validate() error {
	var v domain.ValidationError

	number := strings.TrimSpace(i.Number)
	if number == "" {
		v.Add("number", "required")
	}
	if len(number) > maxNumberLength {
		v.Add("number", fmt.Sprintf("max %d characters", maxNumberLength))
	}
	validateItems(&v, i.Items)

	return v.Err()
}

// AddItemsInput holds the parameters for appending items to a work order.
type AddItemsInput struct {
	WorkOrderID uuid.UUID
	Items       []ItemInput
}

// Validate checks all fields and collects all errors.
func (i AddItemsInput) Validate() error {
	var v domain.ValidationError
	if i.WorkOrderID == uuid.Nil {
		v.Add("work_order_id", "required")
	}
	validateItems(&v, i.Items)
	return v.Err()
}

// UpdateItemStatusInput holds the parameters for changing an item status.
type UpdateItemStatusInput struct {
	ItemID uuid.UUID
	Status domain.ItemStatus
}

// Validate checks all fields and collects all errors.
func (i UpdateItemStatusInput) Validate() error {
	var v domain.ValidationError
	if i.ItemID == uuid.Nil {
		v.Add("item_id", "required")
	}
	if !i.Status.IsValid() {
		v.Add("status", "invalid value")
	}
	return v.Err()
}

func validateItems(v *domain.ValidationError, items []ItemInput) {
	if len(items) == 0 {
		v.Add("items", "at least one item required")
		return
	}
	if len(items) > maxItemsPerRequest {
		v.Add("items", fmt.Sprintf("max %d items", maxItemsPerRequest))
		return
	}

	for idx, it := range items {
		prefix := fmt.Sprintf("items[%d]", idx)
		code := strings.TrimSpace(it.Code)
		if code == "" {
			v.Add(prefix+".code", "required")
		}
		if len(code) > maxCodeLength {
			v.Add(prefix+".code", fmt.Sprintf("max %d characters", maxCodeLength))
		}
		if strings.TrimSpace(it.Quantity) == "" {
			v.Add(prefix+".quantity", "required")
		}
		if len(it.Description) > maxDescription {
			v.Add(prefix+".description", fmt.Sprintf("max %d characters", maxDescription))
		}
	}
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
