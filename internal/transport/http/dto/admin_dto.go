package dto

import "time"

type ReportRequest struct {
	TargetUserID *int64 `json:"target_user_id,omitempty" validate:"omitempty,gt=0"`
	TargetPostID *int64 `json:"target_post_id,omitempty" validate:"omitempty,gt=0"`
	Reason       string `json:"reason" validate:"required,oneof=spam inappropriate misleading other"`
	Details      string `json:"details" validate:"max=2000"`
}

type ReportResponse struct {
	ID           int64     `json:"id"`
	ReporterID   int64     `json:"reporter_id"`
	TargetUserID *int64    `json:"target_user_id,omitempty"`
	TargetPostID *int64    `json:"target_post_id,omitempty"`
	Reason       string    `json:"reason"`
	Details      string    `json:"details,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
}

type ResolveReportRequest struct {
	Dismiss bool `json:"dismiss"`
}

type RemovePostRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type BanUserRequest struct {
	Banned bool `json:"banned"`
}

type AdminActionResponse struct {
	OK bool `json:"ok"`
}
