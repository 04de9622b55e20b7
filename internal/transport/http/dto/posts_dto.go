package dto

import "time"

type PostRequest struct {
	Title                string   `json:"title" validate:"required,max=140"`
	Description          string   `json:"description" validate:"max=4000"`
	SkillsToTeach        []string `json:"skills_to_teach" validate:"max=10"`
	SkillsToLearn        []string `json:"skills_to_learn" validate:"max=10"`
	ExperienceLevel      string   `json:"experience_level" validate:"required,oneof=beginner intermediate advanced expert"`
	PreferredMeetingType string   `json:"preferred_meeting_type" validate:"required,oneof=online offline both"`
}

type PostResponse struct {
	ID                   int64     `json:"id"`
	AuthorID             int64     `json:"author_id"`
	AuthorName           string    `json:"author_name,omitempty"`
	Title                string    `json:"title"`
	Description          string    `json:"description,omitempty"`
	SkillsToTeach        []string  `json:"skills_to_teach"`
	SkillsToLearn        []string  `json:"skills_to_learn"`
	ExperienceLevel      string    `json:"experience_level"`
	PreferredMeetingType string    `json:"preferred_meeting_type"`
	Status               string    `json:"status"`
	ViewsCount           int64     `json:"views_count"`
	CreatedAt            time.Time `json:"created_at"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
}
