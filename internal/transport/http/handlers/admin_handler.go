package handlers

import (
	"errors"
	"net/http"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	"github.com/Hareshku/growtogather-backend/internal/pkg/validate"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
	authsvc "github.com/Hareshku/growtogather-backend/internal/services/auth"
	moderationsvc "github.com/Hareshku/growtogather-backend/internal/services/moderation"
	"github.com/Hareshku/growtogather-backend/internal/transport/http/dto"
	httperrors "github.com/Hareshku/growtogather-backend/internal/transport/http/errors"
)

type AdminHandler struct {
	moderation *moderationsvc.Service
}

func NewAdminHandler(moderation *moderationsvc.Service) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

// Report is the one moderation entry point open to regular users.
func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	var req dto.ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	rec, err := h.moderation.Report(r.Context(), identity.UserID, moderationsvc.ReportInput{
		TargetUserID: req.TargetUserID,
		TargetPostID: req.TargetPostID,
		Reason:       enums.ReportReason(req.Reason),
		Details:      req.Details,
	})
	if err != nil {
		handleModerationError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, reportResponse(rec))
}

func (h *AdminHandler) OpenReports(w http.ResponseWriter, r *http.Request) {
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	recs, err := h.moderation.OpenReports(r.Context(), queryInt(r, "limit"))
	if err != nil {
		handleModerationError(w, err)
		return
	}

	resp := dto.ReportListResponse{Reports: make([]dto.ReportResponse, 0, len(recs))}
	for _, rec := range recs {
		resp.Reports = append(resp.Reports, reportResponse(rec))
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func (h *AdminHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	reportID, ok := pathID(r, "reportID")
	if !ok {
		writeBadRequest(w, "INVALID_REPORT_ID", "report id must be a positive integer")
		return
	}

	var req dto.ResolveReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rec, err := h.moderation.ResolveReport(r.Context(), identity.UserID, reportID, req.Dismiss)
	if err != nil {
		handleModerationError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, reportResponse(rec))
}

func (h *AdminHandler) RemovePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	postID, ok := pathID(r, "postID")
	if !ok {
		writeBadRequest(w, "INVALID_POST_ID", "post id must be a positive integer")
		return
	}

	var req dto.RemovePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.moderation.RemovePost(r.Context(), identity.UserID, postID, req.Reason); err != nil {
		handleModerationError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.AdminActionResponse{OK: true})
}

func (h *AdminHandler) RestorePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	postID, ok := pathID(r, "postID")
	if !ok {
		writeBadRequest(w, "INVALID_POST_ID", "post id must be a positive integer")
		return
	}

	if err := h.moderation.RestorePost(r.Context(), identity.UserID, postID); err != nil {
		handleModerationError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.AdminActionResponse{OK: true})
}

func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	userID, ok := pathID(r, "userID")
	if !ok {
		writeBadRequest(w, "INVALID_USER_ID", "user id must be a positive integer")
		return
	}

	var req dto.BanUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.moderation.SetUserBanned(r.Context(), identity.UserID, userID, req.Banned); err != nil {
		handleModerationError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.AdminActionResponse{OK: true})
}

func reportResponse(rec pgrepo.ReportRecord) dto.ReportResponse {
	return dto.ReportResponse{
		ID:           rec.ID,
		ReporterID:   rec.ReporterID,
		TargetUserID: rec.TargetUserID,
		TargetPostID: rec.TargetPostID,
		Reason:       rec.Reason,
		Details:      rec.Details,
		Status:       rec.Status,
		CreatedAt:    rec.CreatedAt,
	}
}

func handleModerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, moderationsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, moderationsvc.ErrConflict):
		writeConflict(w, "REPORT_CONFLICT", err.Error())
	case errors.Is(err, moderationsvc.ErrNotFound):
		writeNotFound(w, "TARGET_NOT_FOUND", "report target not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "something went wrong")
	}
}
