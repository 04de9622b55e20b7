package dto

import "time"

type CreateMeetingRequest struct {
	ParticipantID   int64     `json:"participant_id" validate:"required,gt=0"`
	Title           string    `json:"title" validate:"required,max=140"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=15,max=240"`
	MeetingType     string    `json:"meeting_type" validate:"required,oneof=online offline"`
	MeetingLink     string    `json:"meeting_link" validate:"omitempty,url"`
}

type MeetingTransitionRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=1000"`
	Notes  string `json:"notes,omitempty" validate:"max=1000"`
}

type MeetingResponse struct {
	ID              int64      `json:"id"`
	OrganizerID     int64      `json:"organizer_id"`
	ParticipantID   int64      `json:"participant_id"`
	Title           string     `json:"title"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes"`
	MeetingType     string     `json:"meeting_type"`
	MeetingLink     *string    `json:"meeting_link,omitempty"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type MeetingListResponse struct {
	Meetings []MeetingResponse `json:"meetings"`
}
