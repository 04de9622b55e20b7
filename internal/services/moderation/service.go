package moderation

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
	ErrConflict   = errors.New("report already resolved")
	ErrNotFound   = errors.New("target not found")
)

const maxDetailsLen = 2000

type ReportStore interface {
	Create(ctx context.Context, reporterID int64, targetUserID, targetPostID *int64, reason, details string, now time.Time) (pgrepo.ReportRecord, error)
	ListOpen(ctx context.Context, limit int) ([]pgrepo.ReportRecord, error)
	Resolve(ctx context.Context, reportID, resolvedBy int64, status string, now time.Time) (pgrepo.ReportRecord, error)
}

type PostStore interface {
	GetByID(ctx context.Context, postID int64) (pgrepo.PostRecord, error)
	SoftRemove(ctx context.Context, postID, removedBy int64, reason string, now time.Time) error
	Restore(ctx context.Context, postID int64) error
}

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	SetBanned(ctx context.Context, userID int64, banned bool) error
}

type Service struct {
	reports ReportStore
	posts   PostStore
	users   UserStore
	now     func() time.Time
}

func NewService(reports ReportStore, posts PostStore, users UserStore) *Service {
	return &Service{
		reports: reports,
		posts:   posts,
		users:   users,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type ReportInput struct {
	TargetUserID *int64
	TargetPostID *int64
	Reason       enums.ReportReason
	Details      string
}

// Report files a complaint against a user or a post. Exactly one target
// must be set.
func (s *Service) Report(ctx context.Context, reporterID int64, in ReportInput) (pgrepo.ReportRecord, error) {
	if reporterID <= 0 {
		return pgrepo.ReportRecord{}, ErrValidation
	}
	hasUser := in.TargetUserID != nil && *in.TargetUserID > 0
	hasPost := in.TargetPostID != nil && *in.TargetPostID > 0
	if hasUser == hasPost {
		return pgrepo.ReportRecord{}, fmt.Errorf("%w: exactly one of targetUserId or targetPostId", ErrValidation)
	}
	switch in.Reason {
	case enums.ReportReasonSpam, enums.ReportReasonInappropriate, enums.ReportReasonMisleading, enums.ReportReasonOther:
	default:
		return pgrepo.ReportRecord{}, fmt.Errorf("%w: reason", ErrValidation)
	}
	details := strings.TrimSpace(in.Details)
	if len(details) > maxDetailsLen {
		return pgrepo.ReportRecord{}, fmt.Errorf("%w: details is too long", ErrValidation)
	}

	if hasUser {
		if _, err := s.users.GetByID(ctx, *in.TargetUserID); err != nil {
			if errors.Is(err, pgrepo.ErrUserNotFound) {
				return pgrepo.ReportRecord{}, ErrNotFound
			}
			return pgrepo.ReportRecord{}, fmt.Errorf("get reported user: %w", err)
		}
	}
	if hasPost {
		if _, err := s.posts.GetByID(ctx, *in.TargetPostID); err != nil {
			if errors.Is(err, pgrepo.ErrPostNotFound) {
				return pgrepo.ReportRecord{}, ErrNotFound
			}
			return pgrepo.ReportRecord{}, fmt.Errorf("get reported post: %w", err)
		}
	}

	rec, err := s.reports.Create(ctx, reporterID, in.TargetUserID, in.TargetPostID, string(in.Reason), details, s.now())
	if err != nil {
		return pgrepo.ReportRecord{}, fmt.Errorf("create report: %w", err)
	}
	return rec, nil
}

func (s *Service) OpenReports(ctx context.Context, limit int) ([]pgrepo.ReportRecord, error) {
	out, err := s.reports.ListOpen(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list open reports: %w", err)
	}
	return out, nil
}

// ResolveReport closes an open report. The conditional update means two
// admins cannot both resolve the same report.
func (s *Service) ResolveReport(ctx context.Context, adminID, reportID int64, dismiss bool) (pgrepo.ReportRecord, error) {
	if adminID <= 0 || reportID <= 0 {
		return pgrepo.ReportRecord{}, ErrValidation
	}
	status := enums.ReportStatusResolved
	if dismiss {
		status = enums.ReportStatusDismissed
	}
	rec, err := s.reports.Resolve(ctx, reportID, adminID, string(status), s.now())
	if err != nil {
		if errors.Is(err, pgrepo.ErrReportNotFound) {
			return pgrepo.ReportRecord{}, ErrConflict
		}
		return pgrepo.ReportRecord{}, fmt.Errorf("resolve report: %w", err)
	}
	return rec, nil
}

// RemovePost soft-removes a post on moderation grounds. The removal reason
// is kept for the audit trail; a blank reason is rejected so the trail
// stays meaningful.
func (s *Service) RemovePost(ctx context.Context, adminID, postID int64, reason string) error {
	if adminID <= 0 || postID <= 0 {
		return ErrValidation
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: removal reason is required", ErrValidation)
	}
	if err := s.posts.SoftRemove(ctx, postID, adminID, reason, s.now()); err != nil {
		if errors.Is(err, pgrepo.ErrPostNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("remove post: %w", err)
	}
	return nil
}

func (s *Service) RestorePost(ctx context.Context, adminID, postID int64) error {
	if adminID <= 0 || postID <= 0 {
		return ErrValidation
	}
	if err := s.posts.Restore(ctx, postID); err != nil {
		if errors.Is(err, pgrepo.ErrPostNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("restore post: %w", err)
	}
	return nil
}

func (s *Service) SetUserBanned(ctx context.Context, adminID, userID int64, banned bool) error {
	if adminID <= 0 || userID <= 0 {
		return ErrValidation
	}
	if adminID == userID {
		return fmt.Errorf("%w: cannot ban yourself", ErrValidation)
	}
	if err := s.users.SetBanned(ctx, userID, banned); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("set user banned: %w", err)
	}
	return nil
}
