package workorder

import "github.com/heartmarshall/ntmanager-backend/internal/domain"

// CreateWorkOrderResult is the created work order with its items.
type CreateWorkOrderResult struct {
	WorkOrder domain.WorkOrder
	Items     []domain.Item
}

// WorkOrderItemsResult is a work order with its badged items.
type WorkOrderItemsResult struct {
	WorkOrder domain.WorkOrder
	Items     []ItemWithStatus
}

// ItemWithStatus pairs an item with its badge computed at read time.
type ItemWithStatus struct {
	Item       domain.Item
	TimeStatus domain.TimeStatus
}
