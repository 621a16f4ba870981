package domain

// ItemStatus is the payment lifecycle status of an item. Values are the
// literal strings stored in the items table.
type ItemStatus string

const (
	ItemStatusAwaitingPayment ItemStatus = "Ag. Pagamento"
	ItemStatusPaid            ItemStatus = "Pago"
	ItemStatusPartiallyPaid   ItemStatus = "Pago Parcial"
)

func (s ItemStatus) String() string { return string(s) }

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusAwaitingPayment, ItemStatusPaid, ItemStatusPartiallyPaid:
		return true
	}
	return false
}

// IsCompleted reports whether the status carries a completion time.
func (s ItemStatus) IsCompleted() bool {
	return s == ItemStatusPaid || s == ItemStatusPartiallyPaid
}

// CompletedItemStatuses lists the statuses shown on the paid-items timeline.
func CompletedItemStatuses() []ItemStatus {
	return []ItemStatus{ItemStatusPaid, ItemStatusPartiallyPaid}
}

// WorkOrderStatus is the lifecycle status of a work order.
type WorkOrderStatus string

const (
	WorkOrderStatusActive    WorkOrderStatus = "Active"
	WorkOrderStatusCompleted WorkOrderStatus = "Completed"
	WorkOrderStatusCancelled WorkOrderStatus = "Cancelled"
)

func (s WorkOrderStatus) String() string { return string(s) }

func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusActive, WorkOrderStatusCompleted, WorkOrderStatusCancelled:
		return true
	}
	return false
}

// Category is the time-sensitivity class of a material.
type Category string

const (
	CategoryColdChain Category = "COLD_CHAIN"
	CategoryFlammable Category = "FLAMMABLE"
	CategoryStandard  Category = "STANDARD"
)

func (c Category) String() string { return string(c) }

// BatchKind identifies the bulk operation a batch groups.
type BatchKind string

const (
	BatchKindBulkCreation BatchKind = "bulk_creation"
	BatchKindBulkAddition BatchKind = "bulk_addition"
	BatchKindBulkDeletion BatchKind = "bulk_deletion"

	// NotificationItemStatus marks a per-row notification emitted outside
	// of any batch. It is not a valid batch kind.
	NotificationItemStatus BatchKind = "item_status"
)

func (k BatchKind) String() string { return string(k) }

func (k BatchKind) IsValid() bool {
	switch k {
	case BatchKindBulkCreation, BatchKindBulkAddition, BatchKindBulkDeletion:
		return true
	}
	return false
}

// ChangeKind is the type of a document change inside a snapshot.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)
