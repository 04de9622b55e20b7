package connections

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
)

type connectionStoreStub struct {
	connections map[int64]pgrepo.ConnectionRecord
	nextID      int64
}

func newConnectionStoreStub() *connectionStoreStub {
	return &connectionStoreStub{connections: make(map[int64]pgrepo.ConnectionRecord), nextID: 1}
}

func (s *connectionStoreStub) Create(_ context.Context, requesterID, receiverID int64, message string, now time.Time) (pgrepo.ConnectionRecord, error) {
	for _, rec := range s.connections {
		if (rec.RequesterID == requesterID && rec.ReceiverID == receiverID) ||
			(rec.RequesterID == receiverID && rec.ReceiverID == requesterID) {
			return pgrepo.ConnectionRecord{}, pgrepo.ErrConnectionExists
		}
	}
	rec := pgrepo.ConnectionRecord{
		ID:          s.nextID,
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      "pending",
		Message:     message,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.connections[rec.ID] = rec
	s.nextID++
	return rec, nil
}

func (s *connectionStoreStub) GetByID(_ context.Context, connectionID int64) (pgrepo.ConnectionRecord, error) {
	rec, ok := s.connections[connectionID]
	if !ok {
		return pgrepo.ConnectionRecord{}, pgrepo.ErrConnectionNotFound
	}
	return rec, nil
}

func (s *connectionStoreStub) GetBetween(_ context.Context, userA, userB int64) (pgrepo.ConnectionRecord, error) {
	for _, rec := range s.connections {
		if (rec.RequesterID == userA && rec.ReceiverID == userB) ||
			(rec.RequesterID == userB && rec.ReceiverID == userA) {
			return rec, nil
		}
	}
	return pgrepo.ConnectionRecord{}, pgrepo.ErrConnectionNotFound
}

func (s *connectionStoreStub) UpdateStatus(_ context.Context, connectionID int64, status string) (pgrepo.ConnectionRecord, error) {
	rec, ok := s.connections[connectionID]
	if !ok || rec.Status != "pending" {
		return pgrepo.ConnectionRecord{}, pgrepo.ErrConnectionNotFound
	}
	rec.Status = status
	s.connections[connectionID] = rec
	return rec, nil
}

func (s *connectionStoreStub) ListForUser(_ context.Context, userID int64, _ int) ([]pgrepo.ConnectionRecord, error) {
	var out []pgrepo.ConnectionRecord
	for _, rec := range s.connections {
		if rec.RequesterID == userID || rec.ReceiverID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type userStoreStub struct {
	users map[int64]pgrepo.UserRecord
}

func (s *userStoreStub) GetByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	rec, ok := s.users[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return rec, nil
}

func newTestService() (*Service, *connectionStoreStub) {
	store := newConnectionStoreStub()
	users := &userStoreStub{users: map[int64]pgrepo.UserRecord{
		1: {ID: 1, FullName: "Alice"},
		2: {ID: 2, FullName: "Bob"},
		3: {ID: 3, FullName: "Mallory", IsBanned: true},
	}}
	return NewService(store, users), store
}

func TestRequestCreatesPendingConnection(t *testing.T) {
	svc, _ := newTestService()

	rec, err := svc.Request(context.Background(), 1, 2, "Let's trade Go for Spanish")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if rec.Status != "pending" {
		t.Fatalf("unexpected status: %q", rec.Status)
	}
	if rec.RequesterID != 1 || rec.ReceiverID != 2 {
		t.Fatalf("unexpected parties: %+v", rec)
	}
}

func TestRequestRejectsSelfAndBannedReceiver(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Request(ctx, 1, 1, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("self request: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Request(ctx, 1, 3, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("banned receiver: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Request(ctx, 1, 404, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing receiver: expected ErrNotFound, got %v", err)
	}
}

func TestRequestDuplicateConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Request(ctx, 1, 2, ""); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := svc.Request(ctx, 2, 1, ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("reverse duplicate: expected ErrConflict, got %v", err)
	}
}

func TestRespondReceiverOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Request(ctx, 1, 2, "")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if _, err := svc.Respond(ctx, 1, rec.ID, true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("requester responding: expected ErrForbidden, got %v", err)
	}

	accepted, err := svc.Respond(ctx, 2, rec.ID, true)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if accepted.Status != "accepted" {
		t.Fatalf("unexpected status: %q", accepted.Status)
	}

	if _, err := svc.Respond(ctx, 2, rec.ID, false); !errors.Is(err, ErrConflict) {
		t.Fatalf("second response: expected ErrConflict, got %v", err)
	}
}

func TestAccepted(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ok, err := svc.Accepted(ctx, 1, 2)
	if err != nil || ok {
		t.Fatalf("no connection: got ok=%v err=%v", ok, err)
	}

	rec, err := svc.Request(ctx, 1, 2, "")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	ok, err = svc.Accepted(ctx, 2, 1)
	if err != nil || ok {
		t.Fatalf("pending connection: got ok=%v err=%v", ok, err)
	}

	if _, err := svc.Respond(ctx, 2, rec.ID, true); err != nil {
		t.Fatalf("respond: %v", err)
	}
	ok, err = svc.Accepted(ctx, 2, 1)
	if err != nil || !ok {
		t.Fatalf("accepted connection: got ok=%v err=%v", ok, err)
	}
}
