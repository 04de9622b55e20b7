package dto

import "time"

type SubmitReviewRequest struct {
	MeetingID int64  `json:"meeting_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=1000"`
}

type ReviewResponse struct {
	ID           int64     `json:"id"`
	MeetingID    int64     `json:"meeting_id"`
	ReviewerID   int64     `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserReviewsResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
	ReviewCount   int64            `json:"review_count"`
}
