package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
	authsvc "github.com/Hareshku/growtogather-backend/internal/services/auth"
	meetingssvc "github.com/Hareshku/growtogather-backend/internal/services/meetings"
)

type meetingStoreStub struct {
	byID   map[int64]pgrepo.MeetingRecord
	nextID int64
}

func newMeetingStoreStub() *meetingStoreStub {
	return &meetingStoreStub{byID: map[int64]pgrepo.MeetingRecord{}, nextID: 1}
}

func (s *meetingStoreStub) Create(_ context.Context, write pgrepo.MeetingWrite, now time.Time) (pgrepo.MeetingRecord, error) {
	rec := pgrepo.MeetingRecord{
		ID:              s.nextID,
		OrganizerID:     write.OrganizerID,
		ParticipantID:   write.ParticipantID,
		Title:           write.Title,
		ScheduledAt:     write.ScheduledAt,
		DurationMinutes: write.DurationMinutes,
		MeetingType:     write.MeetingType,
		MeetingLink:     write.MeetingLink,
		Status:          string(enums.MeetingStatusPending),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.byID[rec.ID] = rec
	s.nextID++
	return rec, nil
}

func (s *meetingStoreStub) GetByID(_ context.Context, meetingID int64) (pgrepo.MeetingRecord, error) {
	rec, ok := s.byID[meetingID]
	if !ok {
		return pgrepo.MeetingRecord{}, pgrepo.ErrMeetingNotFound
	}
	return rec, nil
}

func (s *meetingStoreStub) ListForUser(_ context.Context, userID int64, limit int) ([]pgrepo.MeetingRecord, error) {
	var out []pgrepo.MeetingRecord
	for _, rec := range s.byID {
		if rec.OrganizerID == userID || rec.ParticipantID == userID {
			out = append(out, rec)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *meetingStoreStub) ApplyTransition(_ context.Context, update pgrepo.TransitionUpdate, now time.Time) (pgrepo.MeetingRecord, error) {
	rec, ok := s.byID[update.MeetingID]
	if !ok || rec.Status != update.ExpectedStatus {
		return pgrepo.MeetingRecord{}, pgrepo.ErrMeetingStateStale
	}
	rec.Status = update.NewStatus
	if update.Notes != "" {
		rec.Notes = update.Notes
	}
	if update.MarkStarted && rec.StartedAt == nil {
		rec.StartedAt = &now
	}
	rec.UpdatedAt = now
	s.byID[update.MeetingID] = rec
	return rec, nil
}

type connectionStoreStub struct {
	status string
}

func (s *connectionStoreStub) GetBetween(_ context.Context, _, _ int64) (pgrepo.ConnectionRecord, error) {
	if s.status == "" {
		return pgrepo.ConnectionRecord{}, pgrepo.ErrConnectionNotFound
	}
	return pgrepo.ConnectionRecord{ID: 1, Status: s.status}, nil
}

const (
	organizerID   = int64(10)
	participantID = int64(20)
)

func newMeetingsHandlerForTest(store *meetingStoreStub) *MeetingsHandler {
	svc := meetingssvc.NewService(store, &connectionStoreStub{status: string(enums.ConnectionStatusAccepted)}).
		WithClock(func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) })
	return NewMeetingsHandler(svc, nil)
}

func identityRequest(method, target string, body []byte, userID int64) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: userID,
		SID:    "sid",
		Role:   "USER",
	}))
}

func withMeetingID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("meetingID", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func seedPendingMeeting(store *meetingStoreStub) pgrepo.MeetingRecord {
	rec, _ := store.Create(context.Background(), pgrepo.MeetingWrite{
		OrganizerID:     organizerID,
		ParticipantID:   participantID,
		Title:           "Go generics walkthrough",
		ScheduledAt:     time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		MeetingType:     string(enums.MeetingTypeOnline),
	}, time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))
	return rec
}

func TestCreateMeetingReturnsGeneratedLink(t *testing.T) {
	store := newMeetingStoreStub()
	h := newMeetingsHandlerForTest(store)

	body, err := json.Marshal(map[string]any{
		"participant_id":   participantID,
		"title":            "Go generics walkthrough",
		"scheduled_at":     time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC),
		"duration_minutes": 60,
		"meeting_type":     "online",
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	rr := httptest.NewRecorder()
	h.Create(rr, identityRequest(http.MethodPost, "/v1/meetings", body, organizerID))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d, body %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var payload struct {
		Status      string  `json:"status"`
		MeetingLink *string `json:"meeting_link"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != string(enums.MeetingStatusPending) {
		t.Fatalf("new meeting must be pending, got %q", payload.Status)
	}
	if payload.MeetingLink == nil || !strings.HasPrefix(*payload.MeetingLink, "https://meet.growtogather.app/") {
		t.Fatalf("online meeting must get a generated link, got %v", payload.MeetingLink)
	}
}

func TestCreateMeetingRejectsShortDuration(t *testing.T) {
	h := newMeetingsHandlerForTest(newMeetingStoreStub())

	body, err := json.Marshal(map[string]any{
		"participant_id":   participantID,
		"title":            "Quick chat",
		"scheduled_at":     time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC),
		"duration_minutes": 5,
		"meeting_type":     "online",
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	rr := httptest.NewRecorder()
	h.Create(rr, identityRequest(http.MethodPost, "/v1/meetings", body, organizerID))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAcceptByParticipantConfirms(t *testing.T) {
	store := newMeetingStoreStub()
	h := newMeetingsHandlerForTest(store)
	rec := seedPendingMeeting(store)

	req := withMeetingID(identityRequest(http.MethodPut, "/v1/meetings/1/accept", nil, participantID), "1")
	rr := httptest.NewRecorder()
	h.Transition("accept")(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != string(enums.MeetingStatusConfirmed) {
		t.Fatalf("accept must confirm, got %q", payload.Status)
	}
	if store.byID[rec.ID].Status != string(enums.MeetingStatusConfirmed) {
		t.Fatalf("store status not updated")
	}
}

func TestAcceptByOrganizerForbidden(t *testing.T) {
	store := newMeetingStoreStub()
	h := newMeetingsHandlerForTest(store)
	seedPendingMeeting(store)

	req := withMeetingID(identityRequest(http.MethodPut, "/v1/meetings/1/accept", nil, organizerID), "1")
	rr := httptest.NewRecorder()
	h.Transition("accept")(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusForbidden)
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "FORBIDDEN" {
		t.Fatalf("unexpected error code %q", payload.Code)
	}
}

func TestCancelCompletedMeetingConflicts(t *testing.T) {
	store := newMeetingStoreStub()
	h := newMeetingsHandlerForTest(store)
	rec := seedPendingMeeting(store)

	done := store.byID[rec.ID]
	done.Status = string(enums.MeetingStatusCompleted)
	store.byID[rec.ID] = done

	body, _ := json.Marshal(map[string]string{"reason": "no longer needed"})
	req := withMeetingID(identityRequest(http.MethodPut, "/v1/meetings/1/cancel", body, organizerID), "1")
	rr := httptest.NewRecorder()
	h.Transition("cancel")(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusConflict)
	}
}

func TestTransitionUnknownMeeting(t *testing.T) {
	h := newMeetingsHandlerForTest(newMeetingStoreStub())

	req := withMeetingID(identityRequest(http.MethodPut, "/v1/meetings/404/accept", nil, participantID), "404")
	rr := httptest.NewRecorder()
	h.Transition("accept")(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
}

func TestTransitionRequiresIdentity(t *testing.T) {
	h := newMeetingsHandlerForTest(newMeetingStoreStub())

	req := withMeetingID(httptest.NewRequest(http.MethodPut, "/v1/meetings/1/accept", nil), "1")
	rr := httptest.NewRecorder()
	h.Transition("accept")(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}
