package reviews

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
	ErrConflict   = errors.New("review already submitted")
	ErrNotFound   = errors.New("meeting not found")
)

const (
	minRating     = 1
	maxRating     = 5
	maxCommentLen = 1000
)

type Store interface {
	Create(ctx context.Context, meetingID, reviewerID, revieweeID int64, rating int, comment string, now time.Time) (pgrepo.ReviewRecord, error)
	ListForUser(ctx context.Context, revieweeID int64, limit int) ([]pgrepo.ReviewRecord, error)
	AverageForUser(ctx context.Context, revieweeID int64) (float64, int64, error)
}

type MeetingStore interface {
	GetByID(ctx context.Context, meetingID int64) (pgrepo.MeetingRecord, error)
}

type Service struct {
	reviews  Store
	meetings MeetingStore
	now      func() time.Time
}

func NewService(reviews Store, meetings MeetingStore) *Service {
	return &Service{
		reviews:  reviews,
		meetings: meetings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type SubmitInput struct {
	MeetingID int64
	Rating    int
	Comment   string
}

// Submit records the reviewer's rating of the other party of a completed
// meeting. One review per reviewer per meeting.
func (s *Service) Submit(ctx context.Context, reviewerID int64, in SubmitInput) (pgrepo.ReviewRecord, error) {
	if reviewerID <= 0 || in.MeetingID <= 0 {
		return pgrepo.ReviewRecord{}, ErrValidation
	}
	if in.Rating < minRating || in.Rating > maxRating {
		return pgrepo.ReviewRecord{}, fmt.Errorf("%w: rating must be %d-%d", ErrValidation, minRating, maxRating)
	}
	comment := strings.TrimSpace(in.Comment)
	if len(comment) > maxCommentLen {
		return pgrepo.ReviewRecord{}, fmt.Errorf("%w: comment is too long", ErrValidation)
	}

	meeting, err := s.meetings.GetByID(ctx, in.MeetingID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMeetingNotFound) {
			return pgrepo.ReviewRecord{}, ErrNotFound
		}
		return pgrepo.ReviewRecord{}, fmt.Errorf("get meeting: %w", err)
	}

	var revieweeID int64
	switch reviewerID {
	case meeting.OrganizerID:
		revieweeID = meeting.ParticipantID
	case meeting.ParticipantID:
		revieweeID = meeting.OrganizerID
	default:
		return pgrepo.ReviewRecord{}, ErrForbidden
	}
	if meeting.Status != string(enums.MeetingStatusCompleted) {
		return pgrepo.ReviewRecord{}, fmt.Errorf("%w: meeting is not completed", ErrValidation)
	}

	rec, err := s.reviews.Create(ctx, in.MeetingID, reviewerID, revieweeID, in.Rating, comment, s.now())
	if err != nil {
		if errors.Is(err, pgrepo.ErrReviewExists) {
			return pgrepo.ReviewRecord{}, ErrConflict
		}
		return pgrepo.ReviewRecord{}, fmt.Errorf("create review: %w", err)
	}
	return rec, nil
}

type UserReviews struct {
	Reviews       []pgrepo.ReviewRecord
	AverageRating float64
	ReviewCount   int64
}

func (s *Service) ForUser(ctx context.Context, userID int64, limit int) (UserReviews, error) {
	if userID <= 0 {
		return UserReviews{}, ErrValidation
	}
	reviews, err := s.reviews.ListForUser(ctx, userID, limit)
	if err != nil {
		return UserReviews{}, fmt.Errorf("list reviews: %w", err)
	}
	average, count, err := s.reviews.AverageForUser(ctx, userID)
	if err != nil {
		return UserReviews{}, fmt.Errorf("average rating: %w", err)
	}
	return UserReviews{Reviews: reviews, AverageRating: average, ReviewCount: count}, nil
}
