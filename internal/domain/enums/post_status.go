package enums

type PostStatus string

const (
	PostStatusActive   PostStatus = "active"
	PostStatusInactive PostStatus = "inactive"
	PostStatusRemoved  PostStatus = "removed"
)
