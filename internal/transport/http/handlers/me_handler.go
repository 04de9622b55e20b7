package handlers

import (
	"errors"
	"net/http"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	"github.com/Hareshku/growtogather-backend/internal/pkg/validate"
	authsvc "github.com/Hareshku/growtogather-backend/internal/services/auth"
	mediasvc "github.com/Hareshku/growtogather-backend/internal/services/media"
	userssvc "github.com/Hareshku/growtogather-backend/internal/services/users"
	"github.com/Hareshku/growtogather-backend/internal/transport/http/dto"
	httperrors "github.com/Hareshku/growtogather-backend/internal/transport/http/errors"
)

const maxAvatarUploadBytes = 5 << 20

type MeHandler struct {
	users *userssvc.Service
	media *mediasvc.Service
}

func NewMeHandler(users *userssvc.Service, media *mediasvc.Service) *MeHandler {
	return &MeHandler{users: users, media: media}
}

func (h *MeHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.users == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	profile, err := h.users.Profile(r.Context(), identity.UserID)
	if err != nil {
		handleUsersError(w, err)
		return
	}

	resp := profileResponse(profile)
	if h.media != nil {
		if url, err := h.media.AvatarURL(r.Context(), identity.UserID); err == nil {
			resp.AvatarURL = url
		}
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func (h *MeHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.users == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), identity.UserID, userssvc.ProfileUpdateInput{
		FullName:             req.FullName,
		Profession:           req.Profession,
		Bio:                  req.Bio,
		ExperienceLevel:      req.ExperienceLevel,
		PreferredMeetingType: req.PreferredMeetingType,
	})
	if err != nil {
		handleUsersError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ProfileResponse{
		ID:                   user.ID,
		Email:                user.Email,
		FullName:             user.FullName,
		Profession:           user.Profession,
		Bio:                  user.Bio,
		ExperienceLevel:      user.ExperienceLevel,
		PreferredMeetingType: user.PreferredMeetingType,
		Skills:               []dto.SkillResponse{},
		CreatedAt:            user.CreatedAt,
	})
}

func (h *MeHandler) AddSkill(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.users == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	var req dto.AddSkillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	skill, err := h.users.AddSkill(r.Context(), identity.UserID, userssvc.SkillInput{
		Name:             req.Name,
		Type:             enums.SkillType(req.Type),
		ProficiencyLevel: enums.ProficiencyLevel(req.ProficiencyLevel),
	})
	if err != nil {
		handleUsersError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.SkillResponse{
		ID:               skill.ID,
		Name:             skill.SkillName,
		Type:             skill.SkillType,
		ProficiencyLevel: skill.ProficiencyLevel,
	})
}

func (h *MeHandler) RemoveSkill(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.users == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	skillID, ok := pathID(r, "skillID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid skill id")
		return
	}

	if err := h.users.RemoveSkill(r.Context(), identity.UserID, skillID); err != nil {
		handleUsersError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MeHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.media == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarUploadBytes)
	if err := r.ParseMultipartForm(maxAvatarUploadBytes); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "avatar file is required")
		return
	}
	defer file.Close()

	avatar, err := h.media.UploadAvatar(
		r.Context(),
		identity.UserID,
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
		header.Size,
	)
	if err != nil {
		switch {
		case errors.Is(err, mediasvc.ErrUnsupported):
			writeBadRequest(w, "UNSUPPORTED_MEDIA_TYPE", "avatar must be a jpeg, png or webp image")
		case errors.Is(err, mediasvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid avatar upload")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to store avatar")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AvatarResponse{AvatarURL: avatar.URL})
}

func profileResponse(profile userssvc.Profile) dto.ProfileResponse {
	skills := make([]dto.SkillResponse, 0, len(profile.Skills))
	for _, skill := range profile.Skills {
		skills = append(skills, dto.SkillResponse{
			ID:               skill.ID,
			Name:             skill.SkillName,
			Type:             skill.SkillType,
			ProficiencyLevel: skill.ProficiencyLevel,
		})
	}
	return dto.ProfileResponse{
		ID:                   profile.User.ID,
		Email:                profile.User.Email,
		FullName:             profile.User.FullName,
		Profession:           profile.User.Profession,
		Bio:                  profile.User.Bio,
		ExperienceLevel:      profile.User.ExperienceLevel,
		PreferredMeetingType: profile.User.PreferredMeetingType,
		Skills:               skills,
		CreatedAt:            profile.User.CreatedAt,
	}
}

func handleUsersError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, userssvc.ErrSkillExists):
		writeConflict(w, "SKILL_EXISTS", "skill is already added")
	case errors.Is(err, userssvc.ErrSkillNotFound):
		writeNotFound(w, "NOT_FOUND", "skill not found")
	case errors.Is(err, userssvc.ErrUserNotFound):
		writeNotFound(w, "NOT_FOUND", "user not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
