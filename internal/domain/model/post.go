package model

import (
	"time"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
)

type Post struct {
	ID                   int64                 `json:"id"`
	AuthorID             int64                 `json:"author_id"`
	AuthorName           string                `json:"author_name"`
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	SkillsToTeach        []string              `json:"skills_to_teach"`
	SkillsToLearn        []string              `json:"skills_to_learn"`
	ExperienceLevel      enums.ExperienceLevel `json:"experience_level"`
	PreferredMeetingType enums.MeetingType     `json:"preferred_meeting_type"`
	Status               enums.PostStatus      `json:"status"`
	Approved             bool                  `json:"approved"`
	ViewsCount           int64                 `json:"views_count"`
	RemovedBy            *int64                `json:"removed_by,omitempty"`
	RemovedAt            *time.Time            `json:"removed_at,omitempty"`
	RemovedReason        *string               `json:"removed_reason,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}
