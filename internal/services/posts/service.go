package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	"github.com/Hareshku/growtogather-backend/internal/domain/rules"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("actor not allowed")
	ErrNotFound   = errors.New("post not found")
)

const (
	maxTitleLen       = 140
	maxDescriptionLen = 4000
	maxSkillsPerSide  = 10
	defaultListLimit  = 20
)

type Store interface {
	Create(ctx context.Context, authorID int64, write pgrepo.PostWrite, now time.Time) (pgrepo.PostRecord, error)
	Update(ctx context.Context, postID, authorID int64, write pgrepo.PostWrite) (pgrepo.PostRecord, error)
	GetByID(ctx context.Context, postID int64) (pgrepo.PostRecord, error)
	IncrementViews(ctx context.Context, postID int64) error
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]pgrepo.PostRecord, error)
	SoftRemove(ctx context.Context, postID, removedBy int64, reason string, now time.Time) error
}

type Service struct {
	posts Store
	now   func() time.Time
}

func NewService(posts Store) *Service {
	return &Service{
		posts: posts,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

type PostInput struct {
	Title                string
	Description          string
	SkillsToTeach        []string
	SkillsToLearn        []string
	ExperienceLevel      string
	PreferredMeetingType string
}

func (s *Service) Create(ctx context.Context, authorID int64, in PostInput) (pgrepo.PostRecord, error) {
	if authorID <= 0 {
		return pgrepo.PostRecord{}, ErrValidation
	}
	write, err := buildWrite(in)
	if err != nil {
		return pgrepo.PostRecord{}, err
	}
	rec, err := s.posts.Create(ctx, authorID, write, s.now())
	if err != nil {
		return pgrepo.PostRecord{}, fmt.Errorf("create post: %w", err)
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, postID, authorID int64, in PostInput) (pgrepo.PostRecord, error) {
	if postID <= 0 || authorID <= 0 {
		return pgrepo.PostRecord{}, ErrValidation
	}
	write, err := buildWrite(in)
	if err != nil {
		return pgrepo.PostRecord{}, err
	}

	current, err := s.get(ctx, postID)
	if err != nil {
		return pgrepo.PostRecord{}, err
	}
	if current.AuthorID != authorID {
		return pgrepo.PostRecord{}, ErrForbidden
	}
	if current.Status == string(enums.PostStatusRemoved) {
		return pgrepo.PostRecord{}, ErrNotFound
	}

	rec, err := s.posts.Update(ctx, postID, authorID, write)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPostNotFound) {
			return pgrepo.PostRecord{}, ErrNotFound
		}
		return pgrepo.PostRecord{}, fmt.Errorf("update post: %w", err)
	}
	return rec, nil
}

// View returns a post and counts the read. Removed posts are invisible to
// everyone except their author.
func (s *Service) View(ctx context.Context, viewerID, postID int64) (pgrepo.PostRecord, error) {
	rec, err := s.get(ctx, postID)
	if err != nil {
		return pgrepo.PostRecord{}, err
	}
	if rec.Status == string(enums.PostStatusRemoved) && rec.AuthorID != viewerID {
		return pgrepo.PostRecord{}, ErrNotFound
	}
	if rec.AuthorID != viewerID {
		if err := s.posts.IncrementViews(ctx, postID); err != nil {
			return pgrepo.PostRecord{}, fmt.Errorf("count post view: %w", err)
		}
		rec.ViewsCount++
	}
	return rec, nil
}

func (s *Service) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]pgrepo.PostRecord, error) {
	if authorID <= 0 {
		return nil, ErrValidation
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	out, err := s.posts.ListByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return out, nil
}

// Delete soft-removes the author's own post. The row survives with its
// removal fields set so moderation can audit or restore it.
func (s *Service) Delete(ctx context.Context, postID, authorID int64) error {
	rec, err := s.get(ctx, postID)
	if err != nil {
		return err
	}
	if rec.AuthorID != authorID {
		return ErrForbidden
	}
	if rec.Status == string(enums.PostStatusRemoved) {
		return nil
	}
	if err := s.posts.SoftRemove(ctx, postID, authorID, "removed by author", s.now()); err != nil {
		if errors.Is(err, pgrepo.ErrPostNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("remove post: %w", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, postID int64) (pgrepo.PostRecord, error) {
	if postID <= 0 {
		return pgrepo.PostRecord{}, ErrValidation
	}
	rec, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPostNotFound) {
			return pgrepo.PostRecord{}, ErrNotFound
		}
		return pgrepo.PostRecord{}, fmt.Errorf("get post: %w", err)
	}
	return rec, nil
}

func buildWrite(in PostInput) (pgrepo.PostWrite, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return pgrepo.PostWrite{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(title) > maxTitleLen {
		return pgrepo.PostWrite{}, fmt.Errorf("%w: title is too long", ErrValidation)
	}
	description := strings.TrimSpace(in.Description)
	if len(description) > maxDescriptionLen {
		return pgrepo.PostWrite{}, fmt.Errorf("%w: description is too long", ErrValidation)
	}

	teach := rules.NormalizeSkillSet(in.SkillsToTeach)
	learn := rules.NormalizeSkillSet(in.SkillsToLearn)
	if len(teach) == 0 && len(learn) == 0 {
		return pgrepo.PostWrite{}, fmt.Errorf("%w: at least one skill is required", ErrValidation)
	}
	if len(teach) > maxSkillsPerSide || len(learn) > maxSkillsPerSide {
		return pgrepo.PostWrite{}, fmt.Errorf("%w: too many skills", ErrValidation)
	}

	switch enums.ExperienceLevel(in.ExperienceLevel) {
	case enums.ExperienceBeginner, enums.ExperienceIntermediate, enums.ExperienceAdvanced, enums.ExperienceExpert:
	default:
		return pgrepo.PostWrite{}, fmt.Errorf("%w: experienceLevel", ErrValidation)
	}
	switch enums.MeetingType(in.PreferredMeetingType) {
	case enums.MeetingTypeOnline, enums.MeetingTypeOffline, enums.MeetingTypeBoth:
	default:
		return pgrepo.PostWrite{}, fmt.Errorf("%w: preferredMeetingType", ErrValidation)
	}

	return pgrepo.PostWrite{
		Title:                title,
		Description:          description,
		SkillsToTeach:        teach,
		SkillsToLearn:        learn,
		ExperienceLevel:      in.ExperienceLevel,
		PreferredMeetingType: in.PreferredMeetingType,
	}, nil
}
