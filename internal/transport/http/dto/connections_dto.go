package dto

import "time"

type ConnectionRequest struct {
	ReceiverID int64  `json:"receiver_id" validate:"required,gt=0"`
	Message    string `json:"message" validate:"max=500"`
}

type ConnectionRespondRequest struct {
	Accept bool `json:"accept"`
}

type ConnectionResponse struct {
	ID          int64     `json:"id"`
	RequesterID int64     `json:"requester_id"`
	ReceiverID  int64     `json:"receiver_id"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ConnectionListResponse struct {
	Connections []ConnectionResponse `json:"connections"`
}
