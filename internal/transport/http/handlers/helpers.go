package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Hareshku/growtogather-backend/internal/domain/model"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
	"github.com/Hareshku/growtogather-backend/internal/transport/http/dto"
	httperrors "github.com/Hareshku/growtogather-backend/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeForbidden(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeConflict(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusConflict, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

func pathID(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func postResponse(rec pgrepo.PostRecord) dto.PostResponse {
	return dto.PostResponse{
		ID:                   rec.ID,
		AuthorID:             rec.AuthorID,
		AuthorName:           rec.AuthorName,
		Title:                rec.Title,
		Description:          rec.Description,
		SkillsToTeach:        append([]string(nil), rec.SkillsToTeach...),
		SkillsToLearn:        append([]string(nil), rec.SkillsToLearn...),
		ExperienceLevel:      rec.ExperienceLevel,
		PreferredMeetingType: rec.PreferredMeetingType,
		Status:               rec.Status,
		ViewsCount:           rec.ViewsCount,
		CreatedAt:            rec.CreatedAt,
	}
}

func popularPostResponse(post model.Post) dto.PostResponse {
	return dto.PostResponse{
		ID:                   post.ID,
		AuthorID:             post.AuthorID,
		AuthorName:           post.AuthorName,
		Title:                post.Title,
		Description:          post.Description,
		SkillsToTeach:        append([]string(nil), post.SkillsToTeach...),
		SkillsToLearn:        append([]string(nil), post.SkillsToLearn...),
		ExperienceLevel:      string(post.ExperienceLevel),
		PreferredMeetingType: string(post.PreferredMeetingType),
		Status:               string(post.Status),
		ViewsCount:           post.ViewsCount,
		CreatedAt:            post.CreatedAt,
	}
}

func meetingResponse(rec pgrepo.MeetingRecord) dto.MeetingResponse {
	return dto.MeetingResponse{
		ID:              rec.ID,
		OrganizerID:     rec.OrganizerID,
		ParticipantID:   rec.ParticipantID,
		Title:           rec.Title,
		ScheduledAt:     rec.ScheduledAt,
		DurationMinutes: rec.DurationMinutes,
		MeetingType:     rec.MeetingType,
		MeetingLink:     rec.MeetingLink,
		Status:          rec.Status,
		Notes:           rec.Notes,
		StartedAt:       rec.StartedAt,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

func connectionResponse(rec pgrepo.ConnectionRecord) dto.ConnectionResponse {
	return dto.ConnectionResponse{
		ID:          rec.ID,
		RequesterID: rec.RequesterID,
		ReceiverID:  rec.ReceiverID,
		Status:      rec.Status,
		Message:     rec.Message,
		CreatedAt:   rec.CreatedAt,
	}
}
