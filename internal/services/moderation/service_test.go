package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
)

type reportStoreStub struct {
	byID   map[int64]pgrepo.ReportRecord
	nextID int64
}

func newReportStoreStub() *reportStoreStub {
	return &reportStoreStub{byID: map[int64]pgrepo.ReportRecord{}}
}

func (s *reportStoreStub) Create(_ context.Context, reporterID int64, targetUserID, targetPostID *int64, reason, details string, now time.Time) (pgrepo.ReportRecord, error) {
	s.nextID++
	rec := pgrepo.ReportRecord{
		ID:           s.nextID,
		ReporterID:   reporterID,
		TargetUserID: targetUserID,
		TargetPostID: targetPostID,
		Reason:       reason,
		Details:      details,
		Status:       string(enums.ReportStatusOpen),
		CreatedAt:    now,
	}
	s.byID[rec.ID] = rec
	return rec, nil
}

func (s *reportStoreStub) ListOpen(_ context.Context, limit int) ([]pgrepo.ReportRecord, error) {
	var out []pgrepo.ReportRecord
	for _, rec := range s.byID {
		if rec.Status == string(enums.ReportStatusOpen) {
			out = append(out, rec)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *reportStoreStub) Resolve(_ context.Context, reportID, resolvedBy int64, status string, now time.Time) (pgrepo.ReportRecord, error) {
	rec, ok := s.byID[reportID]
	if !ok || rec.Status != string(enums.ReportStatusOpen) {
		return pgrepo.ReportRecord{}, pgrepo.ErrReportNotFound
	}
	rec.Status = status
	rec.ResolvedBy = &resolvedBy
	rec.ResolvedAt = &now
	s.byID[reportID] = rec
	return rec, nil
}

type postStoreStub struct {
	byID map[int64]pgrepo.PostRecord
}

func (s *postStoreStub) GetByID(_ context.Context, postID int64) (pgrepo.PostRecord, error) {
	rec, ok := s.byID[postID]
	if !ok {
		return pgrepo.PostRecord{}, pgrepo.ErrPostNotFound
	}
	return rec, nil
}

func (s *postStoreStub) SoftRemove(_ context.Context, postID, removedBy int64, reason string, now time.Time) error {
	rec, ok := s.byID[postID]
	if !ok {
		return pgrepo.ErrPostNotFound
	}
	rec.Status = string(enums.PostStatusRemoved)
	rec.RemovedBy = &removedBy
	rec.RemovedAt = &now
	rec.RemovedReason = &reason
	s.byID[postID] = rec
	return nil
}

func (s *postStoreStub) Restore(_ context.Context, postID int64) error {
	rec, ok := s.byID[postID]
	if !ok {
		return pgrepo.ErrPostNotFound
	}
	rec.Status = string(enums.PostStatusActive)
	rec.RemovedBy = nil
	rec.RemovedAt = nil
	rec.RemovedReason = nil
	s.byID[postID] = rec
	return nil
}

type userStoreStub struct {
	byID map[int64]pgrepo.UserRecord
}

func (s *userStoreStub) GetByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	rec, ok := s.byID[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return rec, nil
}

func (s *userStoreStub) SetBanned(_ context.Context, userID int64, banned bool) error {
	rec, ok := s.byID[userID]
	if !ok {
		return pgrepo.ErrUserNotFound
	}
	rec.IsBanned = banned
	s.byID[userID] = rec
	return nil
}

const adminID = int64(1)

func newTestService() (*Service, *reportStoreStub, *postStoreStub, *userStoreStub) {
	reports := newReportStoreStub()
	posts := &postStoreStub{byID: map[int64]pgrepo.PostRecord{
		100: {ID: 100, AuthorID: 7, Status: string(enums.PostStatusActive)},
	}}
	users := &userStoreStub{byID: map[int64]pgrepo.UserRecord{
		adminID: {ID: adminID, Role: "ADMIN"},
		7:       {ID: 7, Role: "USER"},
	}}
	return NewService(reports, posts, users), reports, posts, users
}

func ptr(v int64) *int64 { return &v }

func TestReportRequiresExactlyOneTarget(t *testing.T) {
	svc, _, _, _ := newTestService()

	cases := []struct {
		name string
		in   ReportInput
	}{
		{name: "no_target", in: ReportInput{Reason: enums.ReportReasonSpam}},
		{name: "both_targets", in: ReportInput{TargetUserID: ptr(7), TargetPostID: ptr(100), Reason: enums.ReportReasonSpam}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Report(context.Background(), 5, tc.in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestReportUnknownTarget(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, err := svc.Report(context.Background(), 5, ReportInput{
		TargetPostID: ptr(404),
		Reason:       enums.ReportReasonSpam,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReportAgainstPost(t *testing.T) {
	svc, reports, _, _ := newTestService()

	rec, err := svc.Report(context.Background(), 5, ReportInput{
		TargetPostID: ptr(100),
		Reason:       enums.ReportReasonMisleading,
		Details:      "  claims to teach a language they listed as learning  ",
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if rec.Status != string(enums.ReportStatusOpen) {
		t.Fatalf("new report must be open, got %q", rec.Status)
	}
	if rec.Details != "claims to teach a language they listed as learning" {
		t.Fatalf("details must be trimmed, got %q", rec.Details)
	}
	if len(reports.byID) != 1 {
		t.Fatalf("report not persisted")
	}
}

func TestResolveReportOnce(t *testing.T) {
	svc, _, _, _ := newTestService()

	rec, err := svc.Report(context.Background(), 5, ReportInput{TargetUserID: ptr(7), Reason: enums.ReportReasonSpam})
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	resolved, err := svc.ResolveReport(context.Background(), adminID, rec.ID, false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != string(enums.ReportStatusResolved) {
		t.Fatalf("unexpected status %q", resolved.Status)
	}

	if _, err := svc.ResolveReport(context.Background(), adminID, rec.ID, true); !errors.Is(err, ErrConflict) {
		t.Fatalf("double resolve must conflict, got %v", err)
	}
}

func TestResolveReportDismiss(t *testing.T) {
	svc, _, _, _ := newTestService()

	rec, err := svc.Report(context.Background(), 5, ReportInput{TargetUserID: ptr(7), Reason: enums.ReportReasonOther})
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	dismissed, err := svc.ResolveReport(context.Background(), adminID, rec.ID, true)
	if err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if dismissed.Status != string(enums.ReportStatusDismissed) {
		t.Fatalf("unexpected status %q", dismissed.Status)
	}
}

func TestRemovePostNeedsReason(t *testing.T) {
	svc, _, posts, _ := newTestService()

	if err := svc.RemovePost(context.Background(), adminID, 100, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank reason must be rejected, got %v", err)
	}

	if err := svc.RemovePost(context.Background(), adminID, 100, "spam listing"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	rec := posts.byID[100]
	if rec.Status != string(enums.PostStatusRemoved) || rec.RemovedReason == nil || *rec.RemovedReason != "spam listing" {
		t.Fatalf("removal not recorded: %+v", rec)
	}
}

func TestRestorePost(t *testing.T) {
	svc, _, posts, _ := newTestService()

	if err := svc.RemovePost(context.Background(), adminID, 100, "spam listing"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RestorePost(context.Background(), adminID, 100); err != nil {
		t.Fatalf("restore: %v", err)
	}
	rec := posts.byID[100]
	if rec.Status != string(enums.PostStatusActive) || rec.RemovedReason != nil {
		t.Fatalf("restore must clear removal fields: %+v", rec)
	}
}

func TestSetUserBanned(t *testing.T) {
	svc, _, _, users := newTestService()

	if err := svc.SetUserBanned(context.Background(), adminID, adminID, true); !errors.Is(err, ErrValidation) {
		t.Fatalf("self-ban must be rejected, got %v", err)
	}

	if err := svc.SetUserBanned(context.Background(), adminID, 7, true); err != nil {
		t.Fatalf("ban: %v", err)
	}
	if !users.byID[7].IsBanned {
		t.Fatalf("ban flag not set")
	}

	if err := svc.SetUserBanned(context.Background(), adminID, 7, false); err != nil {
		t.Fatalf("unban: %v", err)
	}
	if users.byID[7].IsBanned {
		t.Fatalf("ban flag not cleared")
	}
}
