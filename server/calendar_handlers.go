package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/mucalsync/calsync-server/calendar"
)

type syncRequest struct {
	Timetable *calendar.Timetable `json:"timetable"`
}

// CalendarSyncHandler writes the caller's timetable into their primary
// Google Calendar. Requires a Google-linked session; one attempt per
// request, no automatic retries.
func (s *Server) CalendarSyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := s.bridge.Resolve(r.Context(), w, r)
		if !view.GoogleAuthenticated {
			writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req syncRequest
		if r.Body != nil {
			// An empty or absent body means "write the test event".
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		var events []*gcal.Event
		if req.Timetable != nil {
			events = calendar.EventsFromTimetable(*req.Timetable)
			if len(events) == 0 {
				writeJSONError(w, "Timetable contains no classes", http.StatusBadRequest)
				return
			}
		} else {
			events = []*gcal.Event{calendar.TestEvent(time.Now())}
		}

		created, err := s.syncer.InsertAll(r.Context(), view.AccessToken, events)
		if err != nil {
			log.Error().Err(err).Int("created", created).Msg("calendar sync failed")
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":   "Failed to sync calendar",
				"details": err.Error(),
				"created": created,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"created": created,
		})
	}
}
