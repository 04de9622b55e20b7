package handlers

import (
	"errors"
	"net/http"

	"github.com/Hareshku/growtogather-backend/internal/pkg/validate"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
	authsvc "github.com/Hareshku/growtogather-backend/internal/services/auth"
	badgessvc "github.com/Hareshku/growtogather-backend/internal/services/badges"
	reviewssvc "github.com/Hareshku/growtogather-backend/internal/services/reviews"
	"github.com/Hareshku/growtogather-backend/internal/transport/http/dto"
	httperrors "github.com/Hareshku/growtogather-backend/internal/transport/http/errors"
)

type ReviewsHandler struct {
	reviews *reviewssvc.Service
	badges  *badgessvc.Notifier
}

func NewReviewsHandler(reviews *reviewssvc.Service, badges *badgessvc.Notifier) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviews, badges: badges}
}

func (h *ReviewsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.reviews == nil {
		writeInternal(w, "REVIEWS_SERVICE_UNAVAILABLE", "reviews service is unavailable")
		return
	}

	var req dto.SubmitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	rec, err := h.reviews.Submit(r.Context(), identity.UserID, reviewssvc.SubmitInput{
		MeetingID: req.MeetingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		handleReviewsError(w, err)
		return
	}
	if h.badges != nil {
		h.badges.Notify(r.Context(), rec.RevieweeID, rec.ID, badgessvc.KindReviewReceived)
	}
	httperrors.Write(w, http.StatusCreated, reviewResponse(rec))
}

func (h *ReviewsHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.reviews == nil {
		writeInternal(w, "REVIEWS_SERVICE_UNAVAILABLE", "reviews service is unavailable")
		return
	}

	userID, ok := pathID(r, "userID")
	if !ok {
		writeBadRequest(w, "INVALID_USER_ID", "user id must be a positive integer")
		return
	}

	result, err := h.reviews.ForUser(r.Context(), userID, queryInt(r, "limit"))
	if err != nil {
		handleReviewsError(w, err)
		return
	}

	resp := dto.UserReviewsResponse{
		Reviews:       make([]dto.ReviewResponse, 0, len(result.Reviews)),
		AverageRating: result.AverageRating,
		ReviewCount:   result.ReviewCount,
	}
	for _, rec := range result.Reviews {
		resp.Reviews = append(resp.Reviews, reviewResponse(rec))
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func reviewResponse(rec pgrepo.ReviewRecord) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:           rec.ID,
		MeetingID:    rec.MeetingID,
		ReviewerID:   rec.ReviewerID,
		ReviewerName: rec.ReviewerName,
		Rating:       rec.Rating,
		Comment:      rec.Comment,
		CreatedAt:    rec.CreatedAt,
	}
}

func handleReviewsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reviewssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, reviewssvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "only meeting parties can review each other")
	case errors.Is(err, reviewssvc.ErrConflict):
		writeConflict(w, "REVIEW_EXISTS", "you already reviewed this meeting")
	case errors.Is(err, reviewssvc.ErrNotFound):
		writeNotFound(w, "MEETING_NOT_FOUND", "meeting not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "something went wrong")
	}
}
