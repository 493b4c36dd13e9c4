package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nerrad567/targetplatform/internal/relay"
)

// handleListEvents returns recorded device events, newest first.
//
// Query parameters:
//   - variant: filter by target variant
//   - device: filter by device name
//   - kind: discovered or lost
//   - since: RFC 3339 timestamp
//   - limit: default 50, max 500
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeUnavailable(w, "event history is not enabled")
		return
	}

	q := r.URL.Query()
	filter := relay.Filter{
		Variant: q.Get("variant"),
		Device:  q.Get("device"),
		Kind:    relay.Kind(q.Get("kind")),
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		writeBadRequest(w, "kind must be discovered or lost")
		return
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeBadRequest(w, "since must be an RFC 3339 timestamp")
			return
		}
		filter.Since = since
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	records, err := s.events.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing device events failed", "error", err)
		writeInternalError(w, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": records, "count": len(records)})
}
