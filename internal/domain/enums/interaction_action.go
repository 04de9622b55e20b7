package enums

type InteractionAction string

const (
	InteractionView    InteractionAction = "view"
	InteractionClick   InteractionAction = "click"
	InteractionContact InteractionAction = "contact"
)
