package posts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
)

type postStoreStub struct {
	byID       map[int64]pgrepo.PostRecord
	nextID     int64
	viewCounts map[int64]int
	removed    map[int64]string
}

func newPostStoreStub() *postStoreStub {
	return &postStoreStub{
		byID:       map[int64]pgrepo.PostRecord{},
		nextID:     1,
		viewCounts: map[int64]int{},
		removed:    map[int64]string{},
	}
}

func (s *postStoreStub) Create(_ context.Context, authorID int64, write pgrepo.PostWrite, now time.Time) (pgrepo.PostRecord, error) {
	rec := pgrepo.PostRecord{
		ID:                   s.nextID,
		AuthorID:             authorID,
		Title:                write.Title,
		Description:          write.Description,
		SkillsToTeach:        write.SkillsToTeach,
		SkillsToLearn:        write.SkillsToLearn,
		ExperienceLevel:      write.ExperienceLevel,
		PreferredMeetingType: write.PreferredMeetingType,
		Status:               string(enums.PostStatusActive),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.byID[rec.ID] = rec
	s.nextID++
	return rec, nil
}

func (s *postStoreStub) Update(_ context.Context, postID, authorID int64, write pgrepo.PostWrite) (pgrepo.PostRecord, error) {
	rec, ok := s.byID[postID]
	if !ok || rec.AuthorID != authorID {
		return pgrepo.PostRecord{}, pgrepo.ErrPostNotFound
	}
	rec.Title = write.Title
	rec.Description = write.Description
	rec.SkillsToTeach = write.SkillsToTeach
	rec.SkillsToLearn = write.SkillsToLearn
	rec.ExperienceLevel = write.ExperienceLevel
	rec.PreferredMeetingType = write.PreferredMeetingType
	s.byID[postID] = rec
	return rec, nil
}

func (s *postStoreStub) GetByID(_ context.Context, postID int64) (pgrepo.PostRecord, error) {
	rec, ok := s.byID[postID]
	if !ok {
		return pgrepo.PostRecord{}, pgrepo.ErrPostNotFound
	}
	return rec, nil
}

func (s *postStoreStub) IncrementViews(_ context.Context, postID int64) error {
	if _, ok := s.byID[postID]; !ok {
		return pgrepo.ErrPostNotFound
	}
	s.viewCounts[postID]++
	rec := s.byID[postID]
	rec.ViewsCount++
	s.byID[postID] = rec
	return nil
}

func (s *postStoreStub) ListByAuthor(_ context.Context, authorID int64, limit int) ([]pgrepo.PostRecord, error) {
	var out []pgrepo.PostRecord
	for _, rec := range s.byID {
		if rec.AuthorID == authorID {
			out = append(out, rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
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
	s.removed[postID] = reason
	return nil
}

func validInput() PostInput {
	return PostInput{
		Title:                "Teach Go, learn Spanish",
		Description:          "Backend developer happy to trade lessons.",
		SkillsToTeach:        []string{"Go", "SQL"},
		SkillsToLearn:        []string{"Spanish"},
		ExperienceLevel:      "intermediate",
		PreferredMeetingType: "online",
	}
}

func TestCreateNormalizesSkills(t *testing.T) {
	store := newPostStoreStub()
	svc := NewService(store)

	in := validInput()
	in.SkillsToTeach = []string{"  Go ", "go", "SQL"}
	rec, err := svc.Create(context.Background(), 7, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(rec.SkillsToTeach) != 2 {
		t.Fatalf("duplicate skills must collapse, got %v", rec.SkillsToTeach)
	}
	for _, skill := range rec.SkillsToTeach {
		if skill != "go" && skill != "sql" {
			t.Fatalf("skills must be normalized lowercase, got %q", skill)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newPostStoreStub())

	cases := []struct {
		name   string
		mutate func(*PostInput)
	}{
		{name: "blank_title", mutate: func(in *PostInput) { in.Title = "   " }},
		{name: "no_skills", mutate: func(in *PostInput) {
			in.SkillsToTeach = nil
			in.SkillsToLearn = []string{"  "}
		}},
		{name: "bad_experience", mutate: func(in *PostInput) { in.ExperienceLevel = "guru" }},
		{name: "bad_meeting_type", mutate: func(in *PostInput) { in.PreferredMeetingType = "astral" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), 7, in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUpdateRequiresAuthor(t *testing.T) {
	store := newPostStoreStub()
	svc := NewService(store)

	rec, err := svc.Create(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(context.Background(), rec.ID, 8, validInput()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-author, got %v", err)
	}
}

func TestViewCountsOnlyForeignReads(t *testing.T) {
	store := newPostStoreStub()
	svc := NewService(store)

	rec, err := svc.Create(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	seen, err := svc.View(context.Background(), 8, rec.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if seen.ViewsCount != 1 {
		t.Fatalf("foreign view must count, got %d", seen.ViewsCount)
	}

	if _, err := svc.View(context.Background(), 7, rec.ID); err != nil {
		t.Fatalf("author view: %v", err)
	}
	if store.viewCounts[rec.ID] != 1 {
		t.Fatalf("author views must not count, got %d", store.viewCounts[rec.ID])
	}
}

func TestRemovedPostHiddenFromOthers(t *testing.T) {
	store := newPostStoreStub()
	svc := NewService(store)

	rec, err := svc.Create(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), rec.ID, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.View(context.Background(), 8, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("removed post must be invisible to others, got %v", err)
	}
	if _, err := svc.View(context.Background(), 7, rec.ID); err != nil {
		t.Fatalf("removed post must stay visible to its author: %v", err)
	}
	if _, err := svc.Update(context.Background(), rec.ID, 7, validInput()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("removed post must reject edits, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newPostStoreStub()
	svc := NewService(store)

	rec, err := svc.Create(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), rec.ID, 7); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(context.Background(), rec.ID, 7); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
	if reason := store.removed[rec.ID]; reason != "removed by author" {
		t.Fatalf("unexpected removal reason %q", reason)
	}
}
