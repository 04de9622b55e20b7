package enums

type MeetingStatus string

const (
	MeetingStatusPending    MeetingStatus = "pending"
	MeetingStatusConfirmed  MeetingStatus = "confirmed"
	MeetingStatusInProgress MeetingStatus = "in_progress"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusCancelled  MeetingStatus = "cancelled"
	MeetingStatusDeclined   MeetingStatus = "declined"
	MeetingStatusNoShow     MeetingStatus = "no_show"
)

// IsTerminal reports whether no further transition is permitted from s.
func (s MeetingStatus) IsTerminal() bool {
	switch s {
	case MeetingStatusCompleted, MeetingStatusCancelled, MeetingStatusDeclined, MeetingStatusNoShow:
		return true
	default:
		return false
	}
}

type MeetingType string

const (
	MeetingTypeOnline  MeetingType = "online"
	MeetingTypeOffline MeetingType = "offline"
	MeetingTypeBoth    MeetingType = "both"
)
