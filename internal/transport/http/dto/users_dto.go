package dto

import "time"

type ProfileResponse struct {
	ID                   int64           `json:"id"`
	Email                string          `json:"email,omitempty"`
	FullName             string          `json:"full_name"`
	Profession           string          `json:"profession,omitempty"`
	Bio                  string          `json:"bio,omitempty"`
	ExperienceLevel      string          `json:"experience_level,omitempty"`
	PreferredMeetingType string          `json:"preferred_meeting_type,omitempty"`
	AvatarURL            string          `json:"avatar_url,omitempty"`
	Skills               []SkillResponse `json:"skills"`
	CreatedAt            time.Time       `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName             string `json:"full_name" validate:"required,max=120"`
	Profession           string `json:"profession" validate:"max=120"`
	Bio                  string `json:"bio" validate:"max=2000"`
	ExperienceLevel      string `json:"experience_level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	PreferredMeetingType string `json:"preferred_meeting_type" validate:"omitempty,oneof=online offline both"`
}

type SkillResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	ProficiencyLevel string `json:"proficiency_level"`
}

type AddSkillRequest struct {
	Name             string `json:"name" validate:"required,max=80"`
	Type             string `json:"type" validate:"required,oneof=teach learn"`
	ProficiencyLevel string `json:"proficiency_level" validate:"required,oneof=beginner intermediate advanced expert"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
