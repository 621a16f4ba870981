package rest

import (
	"net/http"

	"github.com/heartmarshall/ntmanager-backend/internal/service/timeline"
)

type timelineReader interface {
	View() timeline.View
}

// TimelineHandler serves the paid-items timeline.
type TimelineHandler struct {
	timeline timelineReader
}

// NewTimelineHandler creates a TimelineHandler.
func NewTimelineHandler(tl timelineReader) *TimelineHandler {
	return &TimelineHandler{timeline: tl}
}

// Get returns entries, stats, highlighted ids and connection state.
// GET /api/timeline
func (h *TimelineHandler) Get(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, NewTimelineResponse(h.timeline.View()))
}

// Stats returns only the statistics.
// GET /api/timeline/stats
func (h *TimelineHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toStatsResponse(h.timeline.View().Stats))
}
