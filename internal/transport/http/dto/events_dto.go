package dto

type InteractionEventRequest struct {
	PostID int64  `json:"post_id" validate:"required,gt=0"`
	Action string `json:"action" validate:"required,oneof=view click contact"`
}

type TrackEventsRequest struct {
	Events []InteractionEventRequest `json:"events" validate:"required,min=1,max=50,dive"`
}

type TrackEventsResponse struct {
	Accepted int `json:"accepted"`
}
