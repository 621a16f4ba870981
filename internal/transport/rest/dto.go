package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
	"github.com/heartmarshall/ntmanager-backend/internal/service/timeline"
	"github.com/heartmarshall/ntmanager-backend/internal/service/workorder"
)

// TimelineResponse is the JSON form of a timeline view. It is also the data
// of the WebSocket timeline frame.
type TimelineResponse struct {
	Entries     []TimelineEntryResponse `json:"entries"`
	Stats       StatsResponse           `json:"stats"`
	Highlighted []string                `json:"highlighted"`
	Connected   bool                    `json:"connected"`
	UpdatedAt   *time.Time              `json:"updatedAt,omitempty"`
}

// TimelineEntryResponse is one completed item.
type TimelineEntryResponse struct {
	ItemID            string     `json:"itemId"`
	WorkOrderID       string     `json:"workOrderId"`
	WorkOrderNumber   string     `json:"workOrderNumber"`
	ItemNumber        int        `json:"itemNumber"`
	Code              string     `json:"code"`
	Description       string     `json:"description"`
	Quantity          string     `json:"quantity"`
	Batch             *string    `json:"batch,omitempty"`
	Status            string     `json:"status"`
	Priority          bool       `json:"priority"`
	Category          string     `json:"category"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	ResolutionSeconds *int64     `json:"resolutionSeconds,omitempty"`
	ElapsedTime       string     `json:"elapsedTime"`
	IsDelayed         bool       `json:"isDelayed"`
	Highlighted       bool       `json:"highlighted"`
}

// StatsResponse is the JSON form of the timeline statistics.
type StatsResponse struct {
	PaidToday     int    `json:"paidToday"`
	AvgResolution string `json:"avgResolution"`
	Fastest       string `json:"fastest"`
	Slowest       string `json:"slowest"`
}

type timeStatusResponse struct {
	Text      string `json:"text"`
	IsDelayed bool   `json:"isDelayed"`
	Category  string `json:"category"`
}

type itemResponse struct {
	ID          string  `json:"id"`
	WorkOrderID string  `json:"workOrderId"`
	ItemNumber  int     `json:"itemNumber"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Quantity    string  `json:"quantity"`
	Batch       *string `json:"batch,omitempty"`
	Status      string  `json:"status"`
	CreatedDate string  `json:"createdDate"`
	CreatedTime string  `json:"createdTime"`
	PaymentTime *string `json:"paymentTime,omitempty"`
	Priority    bool    `json:"priority"`
}

type openItemResponse struct {
	itemResponse
	TimeStatus timeStatusResponse `json:"timeStatus"`
}

type workOrderResponse struct {
	ID          string         `json:"id"`
	Number      string         `json:"number"`
	CreatedDate string         `json:"createdDate"`
	CreatedTime string         `json:"createdTime"`
	Status      string         `json:"status"`
	Items       []itemResponse `json:"items"`
}

type settingsResponse struct {
	NotificationsEnabled bool `json:"notificationsEnabled"`
	SoundEnabled         bool `json:"soundEnabled"`
}

// NewTimelineResponse maps a timeline view.
func NewTimelineResponse(v timeline.View) TimelineResponse {
	highlighted := make(map[uuid.UUID]struct{}, len(v.Highlighted))
	ids := make([]string, len(v.Highlighted))
	for i, id := range v.Highlighted {
		highlighted[id] = struct{}{}
		ids[i] = id.String()
	}

	entries := make([]TimelineEntryResponse, len(v.Entries))
	for i, e := range v.Entries {
		_, hl := highlighted[e.ItemID]
		entries[i] = toEntryResponse(e, hl)
	}

	return TimelineResponse{
		Entries:     entries,
		Stats:       toStatsResponse(v.Stats),
		Highlighted: ids,
		Connected:   v.Connected,
		UpdatedAt:   timePtr(v.UpdatedAt),
	}
}

func toEntryResponse(e domain.TimelineEntry, highlighted bool) TimelineEntryResponse {
	out := TimelineEntryResponse{
		ItemID:          e.ItemID.String(),
		WorkOrderID:     e.WorkOrderID.String(),
		WorkOrderNumber: e.WorkOrderNumber,
		ItemNumber:      e.ItemNumber,
		Code:            e.Code,
		Description:     e.Description,
		Quantity:        e.Quantity,
		Batch:           e.Batch,
		Status:          string(e.Status),
		Priority:        e.Priority,
		Category:        string(e.Category),
		CreatedAt:       timePtr(e.CreatedAt),
		CompletedAt:     timePtr(e.CompletedAt),
		ElapsedTime:     e.ElapsedTime,
		IsDelayed:       e.IsDelayed,
		Highlighted:     highlighted,
	}
	if e.HasResolution {
		secs := int64(e.Resolution / time.Second)
		out.ResolutionSeconds = &secs
	}
	return out
}

func toStatsResponse(s domain.TimelineStats) StatsResponse {
	return StatsResponse{
		PaidToday:     s.PaidToday,
		AvgResolution: s.AvgResolution,
		Fastest:       s.Fastest,
		Slowest:       s.Slowest,
	}
}

func toTimeStatusResponse(s domain.TimeStatus) timeStatusResponse {
	return timeStatusResponse{Text: s.Text, IsDelayed: s.IsDelayed, Category: string(s.Category)}
}

func toItemResponse(it domain.Item) itemResponse {
	return itemResponse{
		ID:          it.ID.String(),
		WorkOrderID: it.WorkOrderID.String(),
		ItemNumber:  it.ItemNumber,
		Code:        it.Code,
		Description: it.Description,
		Quantity:    it.Quantity,
		Batch:       it.Batch,
		Status:      string(it.Status),
		CreatedDate: it.CreatedDate,
		CreatedTime: it.CreatedTime,
		PaymentTime: it.PaymentTime,
		Priority:    it.Priority,
	}
}

func toItemResponses(items []domain.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = toItemResponse(it)
	}
	return out
}

func toOpenItemResponses(items []workorder.ItemWithStatus) []openItemResponse {
	out := make([]openItemResponse, len(items))
	for i, it := range items {
		out[i] = openItemResponse{
			itemResponse: toItemResponse(it.Item),
			TimeStatus:   toTimeStatusResponse(it.TimeStatus),
		}
	}
	return out
}

func toWorkOrderResponse(wo domain.WorkOrder, items []domain.Item) workOrderResponse {
	return workOrderResponse{
		ID:          wo.ID.String(),
		Number:      wo.Number,
		CreatedDate: wo.CreatedDate,
		CreatedTime: wo.CreatedTime,
		Status:      string(wo.Status),
		Items:       toItemResponses(items),
	}
}

func toSettingsResponse(s domain.Settings) settingsResponse {
	return settingsResponse{NotificationsEnabled: s.NotificationsEnabled, SoundEnabled: s.SoundEnabled}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
