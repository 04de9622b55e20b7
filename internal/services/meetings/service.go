package meetings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("actor not allowed")
	ErrConflict   = errors.New("meeting state conflict")
	ErrNotFound   = errors.New("meeting not found")
)

const (
	minDurationMinutes = 15
	maxDurationMinutes = 240

	meetingLinkBase = "https://meet.growtogather.app/"
)

type Store interface {
	Create(ctx context.Context, write pgrepo.MeetingWrite, now time.Time) (pgrepo.MeetingRecord, error)
	GetByID(ctx context.Context, meetingID int64) (pgrepo.MeetingRecord, error)
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MeetingRecord, error)
	ApplyTransition(ctx context.Context, update pgrepo.TransitionUpdate, now time.Time) (pgrepo.MeetingRecord, error)
}

type ConnectionStore interface {
	GetBetween(ctx context.Context, userA, userB int64) (pgrepo.ConnectionRecord, error)
}

type Service struct {
	meetings    Store
	connections ConnectionStore
	now         func() time.Time
}

func NewService(meetings Store, connections ConnectionStore) *Service {
	return &Service{
		meetings:    meetings,
		connections: connections,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, mainly for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateInput struct {
	ParticipantID   int64
	Title           string
	ScheduledAt     time.Time
	DurationMinutes int
	MeetingType     enums.MeetingType
	MeetingLink     string
}

func (s *Service) Create(ctx context.Context, organizerID int64, in CreateInput) (pgrepo.MeetingRecord, error) {
	if s.meetings == nil || s.connections == nil {
		return pgrepo.MeetingRecord{}, fmt.Errorf("meetings service is not configured")
	}
	if organizerID <= 0 {
		return pgrepo.MeetingRecord{}, ErrValidation
	}
	if in.ParticipantID <= 0 || in.ParticipantID == organizerID {
		return pgrepo.MeetingRecord{}, fmt.Errorf("%w: participant", ErrValidation)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return pgrepo.MeetingRecord{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.ScheduledAt.IsZero() {
		return pgrepo.MeetingRecord{}, fmt.Errorf("%w: scheduledAt is required", ErrValidation)
	}
	if !in.ScheduledAt.After(s.now()) {
		return pgrepo.MeetingRecord{}, fmt.Errorf("%w: scheduledAt must be in the future", ErrValidation)
	}
	if in.DurationMinutes < minDurationMinutes || in.DurationMinutes > maxDurationMinutes {
		return pgrepo.MeetingRecord{}, fmt.Errorf("%w: duration must be %d-%d minutes", ErrValidation, minDurationMinutes, maxDurationMinutes)
	}
	switch in.MeetingType {
	case enums.MeetingTypeOnline, enums.MeetingTypeOffline:
	default:
		return pgrepo.MeetingRecord{}, fmt.Errorf("%w: meetingType", ErrValidation)
	}

	conn, err := s.connections.GetBetween(ctx, organizerID, in.ParticipantID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return pgrepo.MeetingRecord{}, fmt.Errorf("%w: no accepted connection with participant", ErrForbidden)
		}
		return pgrepo.MeetingRecord{}, fmt.Errorf("check connection: %w", err)
	}
	if conn.Status != string(enums.ConnectionStatusAccepted) {
		return pgrepo.MeetingRecord{}, fmt.Errorf("%w: no accepted connection with participant", ErrForbidden)
	}

	var link *string
	if trimmed := strings.TrimSpace(in.MeetingLink); trimmed != "" {
		link = &trimmed
	} else if in.MeetingType == enums.MeetingTypeOnline {
		generated := meetingLinkBase + uuid.NewString()
		link = &generated
	}

	rec, err := s.meetings.Create(ctx, pgrepo.MeetingWrite{
		OrganizerID:     organizerID,
		ParticipantID:   in.ParticipantID,
		Title:           title,
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		MeetingType:     string(in.MeetingType),
		MeetingLink:     link,
	}, s.now())
	if err != nil {
		return pgrepo.MeetingRecord{}, fmt.Errorf("create meeting: %w", err)
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, actorID, meetingID int64) (pgrepo.MeetingRecord, error) {
	rec, err := s.fetch(ctx, meetingID)
	if err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	if !isParty(rec, actorID) {
		return pgrepo.MeetingRecord{}, ErrForbidden
	}
	return rec, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MeetingRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	out, err := s.meetings.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return out, nil
}

// Accept confirms a pending invite. Only the participant may accept;
// the organizer cannot confirm their own meeting.
func (s *Service) Accept(ctx context.Context, actorID, meetingID int64) (pgrepo.MeetingRecord, error) {
	rec, err := s.fetch(ctx, meetingID)
	if err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	if err := requireRole(rec, actorID, roleParticipant); err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	if err := requireStatus(rec, enums.MeetingStatusPending); err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	return s.transition(ctx, pgrepo.TransitionUpdate{
		MeetingID:      meetingID,
		ExpectedStatus: string(enums.MeetingStatusPending),
		NewStatus:      string(enums.MeetingStatusConfirmed),
	})
}

// Decline rejects a pending invite. Participant only; an optional reason
// is stored in notes.
func (s *Service) Decline(ctx context.Context, actorID, meetingID int64, reason string) (pgrepo.MeetingRecord, error) {
	rec, err := s.fetch(ctx, meetingID)
	if err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	if err := requireRole(rec, actorID, roleParticipant); err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	if err := requireStatus(rec, enums.MeetingStatusPending); err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	return s.transition(ctx, pgrepo.TransitionUpdate{
		MeetingID:      meetingID,
		ExpectedStatus: string(enums.MeetingStatusPending),
		NewStatus:      string(enums.MeetingStatusDeclined),
		Notes:          reason,
	})
}

// Cancel withdraws a meeting before it starts. Organizer only; a meeting
// already in progress can no longer be cancelled.
func (s *Service) Cancel(ctx context.Context, actorID, meetingID int64, reason string) (pgrepo.MeetingRecord, error) {
	rec, err := s.fetch(ctx, meetingID)
	if err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	if err := requireRole(rec, actorID, roleOrganizer); err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	if err := requireStatus(rec, enums.MeetingStatusPending, enums.MeetingStatusConfirmed); err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	return s.transition(ctx, pgrepo.TransitionUpdate{
		MeetingID:      meetingID,
		ExpectedStatus: rec.Status,
		NewStatus:      string(enums.MeetingStatusCancelled),
		Notes:          reason,
	})
}

// Join moves a confirmed meeting into progress on the first join and is a
// no-op for anyone joining after that.
func (s *Service) Join(ctx context.Context, actorID, meetingID int64) (pgrepo.MeetingRecord, error) {
	rec, err := s.fetch(ctx, meetingID)
	if err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	if err := requireRole(rec, actorID, roleEither); err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	if rec.Status == string(enums.MeetingStatusInProgress) {
		return rec, nil
	}
	if err := requireStatus(rec, enums.MeetingStatusConfirmed); err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	updated, err := s.transition(ctx, pgrepo.TransitionUpdate{
		MeetingID:      meetingID,
		ExpectedStatus: string(enums.MeetingStatusConfirmed),
		NewStatus:      string(enums.MeetingStatusInProgress),
		MarkStarted:    true,
	})
	if err == nil {
		return updated, nil
	}
	// Losing the join race to the other party is still a successful join.
	if errors.Is(err, ErrConflict) {
		current, fetchErr := s.fetch(ctx, meetingID)
		if fetchErr == nil && current.Status == string(enums.MeetingStatusInProgress) {
			return current, nil
		}
	}
	return pgrepo.MeetingRecord{}, err
}

// Complete finishes a confirmed or running meeting. Either party may
// complete; optional notes are stored without clobbering earlier text.
func (s *Service) Complete(ctx context.Context, actorID, meetingID int64, notes string) (pgrepo.MeetingRecord, error) {
	rec, err := s.fetch(ctx, meetingID)
	if err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	if err := requireRole(rec, actorID, roleEither); err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	if err := requireStatus(rec, enums.MeetingStatusConfirmed, enums.MeetingStatusInProgress); err != nil {
		return pgrepo.MeetingRecord{}, err
	}
	return s.transition(ctx, pgrepo.TransitionUpdate{
		MeetingID:      meetingID,
		ExpectedStatus: rec.Status,
		NewStatus:      string(enums.MeetingStatusCompleted),
		Notes:          notes,
	})
}

func (s *Service) fetch(ctx context.Context, meetingID int64) (pgrepo.MeetingRecord, error) {
	if meetingID <= 0 {
		return pgrepo.MeetingRecord{}, ErrValidation
	}
	rec, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMeetingNotFound) {
			return pgrepo.MeetingRecord{}, ErrNotFound
		}
		return pgrepo.MeetingRecord{}, fmt.Errorf("fetch meeting: %w", err)
	}
	return rec, nil
}

func (s *Service) transition(ctx context.Context, update pgrepo.TransitionUpdate) (pgrepo.MeetingRecord, error) {
	rec, err := s.meetings.ApplyTransition(ctx, update, s.now())
	if err != nil {
		// Zero rows means the state moved under us; the caller has to
		// re-fetch and decide, we never retry.
		if errors.Is(err, pgrepo.ErrMeetingStateStale) {
			return pgrepo.MeetingRecord{}, ErrConflict
		}
		return pgrepo.MeetingRecord{}, fmt.Errorf("apply transition: %w", err)
	}
	return rec, nil
}

type actorRole int

const (
	roleOrganizer actorRole = iota
	roleParticipant
	roleEither
)

func isParty(rec pgrepo.MeetingRecord, actorID int64) bool {
	return actorID == rec.OrganizerID || actorID == rec.ParticipantID
}

func requireRole(rec pgrepo.MeetingRecord, actorID int64, role actorRole) error {
	if actorID <= 0 {
		return ErrValidation
	}
	if !isParty(rec, actorID) {
		return ErrForbidden
	}
	switch role {
	case roleOrganizer:
		if actorID != rec.OrganizerID {
			return fmt.Errorf("%w: organizer only", ErrForbidden)
		}
	case roleParticipant:
		if actorID != rec.ParticipantID {
			return fmt.Errorf("%w: participant only", ErrForbidden)
		}
	}
	return nil
}

func requireStatus(rec pgrepo.MeetingRecord, allowed ...enums.MeetingStatus) error {
	current := enums.MeetingStatus(rec.Status)
	for _, status := range allowed {
		if current == status {
			return nil
		}
	}
	return fmt.Errorf("%w: meeting is %s", ErrConflict, rec.Status)
}
