package connections

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("actor not allowed")
	ErrConflict   = errors.New("connection state conflict")
	ErrNotFound   = errors.New("connection not found")
)

const maxMessageLen = 500

type Store interface {
	Create(ctx context.Context, requesterID, receiverID int64, message string, now time.Time) (pgrepo.ConnectionRecord, error)
	GetByID(ctx context.Context, connectionID int64) (pgrepo.ConnectionRecord, error)
	GetBetween(ctx context.Context, userA, userB int64) (pgrepo.ConnectionRecord, error)
	UpdateStatus(ctx context.Context, connectionID int64, status string) (pgrepo.ConnectionRecord, error)
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.ConnectionRecord, error)
}

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
}

type Service struct {
	connections Store
	users       UserStore
	now         func() time.Time
}

func NewService(connections Store, users UserStore) *Service {
	return &Service{
		connections: connections,
		users:       users,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Request(ctx context.Context, requesterID, receiverID int64, message string) (pgrepo.ConnectionRecord, error) {
	if requesterID <= 0 {
		return pgrepo.ConnectionRecord{}, ErrValidation
	}
	if receiverID <= 0 || receiverID == requesterID {
		return pgrepo.ConnectionRecord{}, fmt.Errorf("%w: receiver", ErrValidation)
	}
	message = strings.TrimSpace(message)
	if len(message) > maxMessageLen {
		return pgrepo.ConnectionRecord{}, fmt.Errorf("%w: message is too long", ErrValidation)
	}

	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return pgrepo.ConnectionRecord{}, ErrNotFound
		}
		return pgrepo.ConnectionRecord{}, fmt.Errorf("get receiver: %w", err)
	}
	if receiver.IsBanned {
		return pgrepo.ConnectionRecord{}, ErrNotFound
	}

	rec, err := s.connections.Create(ctx, requesterID, receiverID, message, s.now())
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionExists) {
			return pgrepo.ConnectionRecord{}, ErrConflict
		}
		return pgrepo.ConnectionRecord{}, fmt.Errorf("create connection: %w", err)
	}
	return rec, nil
}

// Respond accepts or rejects a pending request. Only the receiver decides;
// the conditional update keeps a concurrent accept and reject from both
// winning.
func (s *Service) Respond(ctx context.Context, actorID, connectionID int64, accept bool) (pgrepo.ConnectionRecord, error) {
	if actorID <= 0 || connectionID <= 0 {
		return pgrepo.ConnectionRecord{}, ErrValidation
	}
	rec, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return pgrepo.ConnectionRecord{}, ErrNotFound
		}
		return pgrepo.ConnectionRecord{}, fmt.Errorf("get connection: %w", err)
	}
	if rec.ReceiverID != actorID {
		return pgrepo.ConnectionRecord{}, ErrForbidden
	}
	if rec.Status != string(enums.ConnectionStatusPending) {
		return pgrepo.ConnectionRecord{}, ErrConflict
	}

	status := enums.ConnectionStatusRejected
	if accept {
		status = enums.ConnectionStatusAccepted
	}
	updated, err := s.connections.UpdateStatus(ctx, connectionID, string(status))
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return pgrepo.ConnectionRecord{}, ErrConflict
		}
		return pgrepo.ConnectionRecord{}, fmt.Errorf("update connection: %w", err)
	}
	return updated, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.ConnectionRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	out, err := s.connections.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return out, nil
}

// Accepted reports whether the two users share an accepted connection.
func (s *Service) Accepted(ctx context.Context, userA, userB int64) (bool, error) {
	if userA <= 0 || userB <= 0 {
		return false, ErrValidation
	}
	rec, err := s.connections.GetBetween(ctx, userA, userB)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get connection between users: %w", err)
	}
	return rec.Status == string(enums.ConnectionStatusAccepted), nil
}
