package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	"github.com/Hareshku/growtogather-backend/internal/pkg/validate"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
	authsvc "github.com/Hareshku/growtogather-backend/internal/services/auth"
	badgessvc "github.com/Hareshku/growtogather-backend/internal/services/badges"
	meetingssvc "github.com/Hareshku/growtogather-backend/internal/services/meetings"
	"github.com/Hareshku/growtogather-backend/internal/transport/http/dto"
	httperrors "github.com/Hareshku/growtogather-backend/internal/transport/http/errors"
)

type MeetingsHandler struct {
	meetings *meetingssvc.Service
	badges   *badgessvc.Notifier
}

func NewMeetingsHandler(meetings *meetingssvc.Service, badges *badgessvc.Notifier) *MeetingsHandler {
	return &MeetingsHandler{meetings: meetings, badges: badges}
}

func (h *MeetingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.meetings == nil {
		writeInternal(w, "MEETINGS_SERVICE_UNAVAILABLE", "meetings service is unavailable")
		return
	}

	var req dto.CreateMeetingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	rec, err := h.meetings.Create(r.Context(), identity.UserID, meetingssvc.CreateInput{
		ParticipantID:   req.ParticipantID,
		Title:           req.Title,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		MeetingType:     enums.MeetingType(req.MeetingType),
		MeetingLink:     req.MeetingLink,
	})
	if err != nil {
		handleMeetingsError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, meetingResponse(rec))
}

func (h *MeetingsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.meetings == nil {
		writeInternal(w, "MEETINGS_SERVICE_UNAVAILABLE", "meetings service is unavailable")
		return
	}

	records, err := h.meetings.ListForUser(r.Context(), identity.UserID, queryInt(r, "limit"))
	if err != nil {
		handleMeetingsError(w, err)
		return
	}

	out := make([]dto.MeetingResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, meetingResponse(rec))
	}
	httperrors.Write(w, http.StatusOK, dto.MeetingListResponse{Meetings: out})
}

func (h *MeetingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.meetings == nil {
		writeInternal(w, "MEETINGS_SERVICE_UNAVAILABLE", "meetings service is unavailable")
		return
	}

	meetingID, ok := pathID(r, "meetingID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid meeting id")
		return
	}

	rec, err := h.meetings.Get(r.Context(), identity.UserID, meetingID)
	if err != nil {
		handleMeetingsError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, meetingResponse(rec))
}

// Transition dispatches the lifecycle actions: accept, decline, cancel,
// join and complete share one handler because they differ only in the
// service call.
func (h *MeetingsHandler) Transition(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
			return
		}
		if h.meetings == nil {
			writeInternal(w, "MEETINGS_SERVICE_UNAVAILABLE", "meetings service is unavailable")
			return
		}

		meetingID, ok := pathID(r, "meetingID")
		if !ok {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid meeting id")
			return
		}

		var req dto.MeetingTransitionRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := decodeJSON(r, &req); err != nil {
				writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
				return
			}
		}
		text := strings.TrimSpace(req.Reason)
		if text == "" {
			text = strings.TrimSpace(req.Notes)
		}

		var rec pgrepo.MeetingRecord
		var err error
		switch action {
		case "accept":
			rec, err = h.meetings.Accept(r.Context(), identity.UserID, meetingID)
		case "decline":
			rec, err = h.meetings.Decline(r.Context(), identity.UserID, meetingID, text)
		case "cancel":
			rec, err = h.meetings.Cancel(r.Context(), identity.UserID, meetingID, text)
		case "join":
			rec, err = h.meetings.Join(r.Context(), identity.UserID, meetingID)
		case "complete":
			rec, err = h.meetings.Complete(r.Context(), identity.UserID, meetingID, text)
			if err == nil && h.badges != nil {
				h.badges.Notify(r.Context(), identity.UserID, meetingID, badgessvc.KindMeetingCompleted)
			}
		default:
			writeNotFound(w, "NOT_FOUND", "unknown meeting action")
			return
		}
		if err != nil {
			handleMeetingsError(w, err)
			return
		}

		httperrors.Write(w, http.StatusOK, meetingResponse(rec))
	}
}

func handleMeetingsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, meetingssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, meetingssvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "you are not allowed to perform this action")
	case errors.Is(err, meetingssvc.ErrConflict):
		writeConflict(w, "CONFLICT", "meeting state does not allow this action")
	case errors.Is(err, meetingssvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "meeting not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
