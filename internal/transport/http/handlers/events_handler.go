package handlers

import (
	"errors"
	"net/http"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	"github.com/Hareshku/growtogather-backend/internal/pkg/validate"
	analyticssvc "github.com/Hareshku/growtogather-backend/internal/services/analytics"
	authsvc "github.com/Hareshku/growtogather-backend/internal/services/auth"
	"github.com/Hareshku/growtogather-backend/internal/transport/http/dto"
	httperrors "github.com/Hareshku/growtogather-backend/internal/transport/http/errors"
)

type EventsHandler struct {
	analytics *analyticssvc.Service
}

func NewEventsHandler(analytics *analyticssvc.Service) *EventsHandler {
	return &EventsHandler{analytics: analytics}
}

// Track ingests a batch of post interaction events. Authentication is
// optional here: anonymous visitors still produce view telemetry.
func (h *EventsHandler) Track(w http.ResponseWriter, r *http.Request) {
	if h.analytics == nil {
		writeInternal(w, "ANALYTICS_SERVICE_UNAVAILABLE", "analytics service is unavailable")
		return
	}

	var req dto.TrackEventsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	var userID *int64
	if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
		userID = &identity.UserID
	}

	batch := make([]analyticssvc.Event, 0, len(req.Events))
	for _, event := range req.Events {
		batch = append(batch, analyticssvc.Event{
			PostID: event.PostID,
			Action: enums.InteractionAction(event.Action),
		})
	}

	if err := h.analytics.Track(r.Context(), userID, batch); err != nil {
		handleEventsError(w, err)
		return
	}
	httperrors.Write(w, http.StatusAccepted, dto.TrackEventsResponse{Accepted: len(batch)})
}

func handleEventsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analyticssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, analyticssvc.ErrRateLimit):
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Code:          "RATE_LIMITED",
			Message:       "too many interaction events, slow down",
			RetryAfterSec: 60,
		})
	default:
		writeInternal(w, "INTERNAL_ERROR", "something went wrong")
	}
}
