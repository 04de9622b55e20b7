package recommendations

import (
	"context"
	"testing"
	"time"

	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
)

type candidateStoreStub struct {
	posts  []pgrepo.PostRecord
	called bool
}

func (s *candidateStoreStub) ListCandidates(_ context.Context, _ int64, limit int) ([]pgrepo.PostRecord, error) {
	s.called = true
	if limit <= 0 || limit > len(s.posts) {
		limit = len(s.posts)
	}
	out := make([]pgrepo.PostRecord, 0, limit)
	out = append(out, s.posts[:limit]...)
	return out, nil
}

type skillStoreStub struct {
	skills []pgrepo.SkillRecord
}

func (s *skillStoreStub) ListByUser(_ context.Context, _ int64) ([]pgrepo.SkillRecord, error) {
	return s.skills, nil
}

func learnSkill(name string) pgrepo.SkillRecord {
	return pgrepo.SkillRecord{SkillName: name, SkillType: "learn", ProficiencyLevel: "beginner"}
}

func teachSkill(name string) pgrepo.SkillRecord {
	return pgrepo.SkillRecord{SkillName: name, SkillType: "teach", ProficiencyLevel: "advanced"}
}

func activePost(id int64, createdAt time.Time, teaches, learns []string) pgrepo.PostRecord {
	return pgrepo.PostRecord{
		ID:                   id,
		AuthorID:             id + 1000,
		Title:                "post",
		SkillsToTeach:        teaches,
		SkillsToLearn:        learns,
		ExperienceLevel:      "intermediate",
		PreferredMeetingType: "online",
		Status:               "active",
		Approved:             true,
		CreatedAt:            createdAt,
	}
}

func TestPersonalizedSingleLearningMatchScoresFull(t *testing.T) {
	posts := &candidateStoreStub{posts: []pgrepo.PostRecord{
		activePost(1, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), []string{"Spanish", "French"}, nil),
	}}
	skills := &skillStoreStub{skills: []pgrepo.SkillRecord{learnSkill("Spanish")}}

	service := NewService(posts, skills)
	result, err := service.Personalized(context.Background(), 10, Filters{})
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("unexpected recommendation count: got %d want 1", len(result.Recommendations))
	}

	rec := result.Recommendations[0]
	if rec.Score != 1.0 {
		t.Fatalf("unexpected score: got %v want 1.0", rec.Score)
	}
	if rec.MatchType != MatchTypeLearning {
		t.Fatalf("unexpected match type: got %q want %q", rec.MatchType, MatchTypeLearning)
	}
	if len(rec.SkillMatches) != 1 {
		t.Fatalf("unexpected skill match count: got %d want 1", len(rec.SkillMatches))
	}
	match := rec.SkillMatches[0]
	if match.Type != SkillMatchLearningOpportunity {
		t.Fatalf("unexpected skill match type: %q", match.Type)
	}
	if match.UserSkill != "Spanish" || match.PostSkill != "Spanish" {
		t.Fatalf("unexpected skill match pairing: %+v", match)
	}
}

func TestPersonalizedScoreStaysWithinBounds(t *testing.T) {
	// More matches than requester skill entries cannot push the score past 1.
	posts := &candidateStoreStub{posts: []pgrepo.PostRecord{
		activePost(1, time.Now().UTC(), []string{"Go", "Rust"}, []string{"Piano", "Chess"}),
	}}
	skills := &skillStoreStub{skills: []pgrepo.SkillRecord{
		learnSkill("Go"),
		learnSkill("Rust"),
		teachSkill("Piano"),
		teachSkill("Chess"),
	}}

	service := NewService(posts, skills)
	result, err := service.Personalized(context.Background(), 10, Filters{})
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	for _, rec := range result.Recommendations {
		if rec.Score < 0 || rec.Score > 1 {
			t.Fatalf("score out of bounds: %v", rec.Score)
		}
	}
	if got := result.Recommendations[0].Score; got != 1.0 {
		t.Fatalf("unexpected full-overlap score: got %v want 1.0", got)
	}
}

func TestPersonalizedPartialMatchScoresFraction(t *testing.T) {
	posts := &candidateStoreStub{posts: []pgrepo.PostRecord{
		activePost(1, time.Now().UTC(), []string{"Python"}, nil),
	}}
	skills := &skillStoreStub{skills: []pgrepo.SkillRecord{
		learnSkill("Python"),
		teachSkill("Guitar"),
	}}

	service := NewService(posts, skills)
	result, err := service.Personalized(context.Background(), 10, Filters{})
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("unexpected recommendation count: got %d want 1", len(result.Recommendations))
	}
	if got := result.Recommendations[0].Score; got != 0.5 {
		t.Fatalf("unexpected score: got %v want 0.5", got)
	}
}

func TestPersonalizedNoSkillsReturnsEmptyWithoutCandidateScan(t *testing.T) {
	posts := &candidateStoreStub{posts: []pgrepo.PostRecord{
		activePost(1, time.Now().UTC(), []string{"Spanish"}, nil),
	}}
	skills := &skillStoreStub{}

	service := NewService(posts, skills)
	result, err := service.Personalized(context.Background(), 10, Filters{})
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(result.Recommendations) != 0 {
		t.Fatalf("expected empty recommendations, got %d", len(result.Recommendations))
	}
	if result.Analysis.HasSkills {
		t.Fatalf("expected analysis to report no skills")
	}
	if posts.called {
		t.Fatalf("candidate store should not be queried for a skill-less requester")
	}
}

func TestPersonalizedNormalizationIsSymmetric(t *testing.T) {
	posts := &candidateStoreStub{posts: []pgrepo.PostRecord{
		activePost(1, time.Now().UTC(), []string{"react"}, nil),
		activePost(2, time.Now().UTC(), []string{"  VUE  "}, nil),
	}}
	skills := &skillStoreStub{skills: []pgrepo.SkillRecord{
		learnSkill("REACT "),
		learnSkill("vue"),
	}}

	service := NewService(posts, skills)
	result, err := service.Personalized(context.Background(), 10, Filters{})
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(result.Recommendations) != 2 {
		t.Fatalf("unexpected recommendation count: got %d want 2", len(result.Recommendations))
	}
}

func TestPersonalizedMutualClassification(t *testing.T) {
	posts := &candidateStoreStub{posts: []pgrepo.PostRecord{
		activePost(1, time.Now().UTC(), []string{"Python"}, []string{"Guitar"}),
	}}
	skills := &skillStoreStub{skills: []pgrepo.SkillRecord{
		learnSkill("Python"),
		teachSkill("Guitar"),
	}}

	service := NewService(posts, skills)
	result, err := service.Personalized(context.Background(), 10, Filters{})
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("unexpected recommendation count: got %d want 1", len(result.Recommendations))
	}

	rec := result.Recommendations[0]
	if rec.MatchType != MatchTypeMutual {
		t.Fatalf("unexpected match type: got %q want %q", rec.MatchType, MatchTypeMutual)
	}

	var haveLearning, haveTeaching bool
	for _, match := range rec.SkillMatches {
		switch match.Type {
		case SkillMatchLearningOpportunity:
			haveLearning = true
		case SkillMatchTeachingOpportunity:
			haveTeaching = true
		}
	}
	if !haveLearning || !haveTeaching {
		t.Fatalf("expected both opportunity kinds, got %+v", rec.SkillMatches)
	}
}

func TestPersonalizedTieBreakIsNewestFirstAndStable(t *testing.T) {
	older := activePost(1, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), []string{"Go"}, nil)
	newer := activePost(2, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), []string{"Go"}, nil)
	posts := &candidateStoreStub{posts: []pgrepo.PostRecord{older, newer}}
	skills := &skillStoreStub{skills: []pgrepo.SkillRecord{learnSkill("Go")}}

	service := NewService(posts, skills)
	for i := 0; i < 3; i++ {
		result, err := service.Personalized(context.Background(), 10, Filters{})
		if err != nil {
			t.Fatalf("personalized: %v", err)
		}
		if len(result.Recommendations) != 2 {
			t.Fatalf("unexpected recommendation count: got %d want 2", len(result.Recommendations))
		}
		if result.Recommendations[0].Post.ID != 2 || result.Recommendations[1].Post.ID != 1 {
			t.Fatalf("unexpected tie-break order on run %d: %d, %d",
				i, result.Recommendations[0].Post.ID, result.Recommendations[1].Post.ID)
		}
	}
}

func TestPersonalizedDropsZeroScoreCandidates(t *testing.T) {
	posts := &candidateStoreStub{posts: []pgrepo.PostRecord{
		activePost(1, time.Now().UTC(), []string{"Cooking"}, []string{"Baking"}),
		activePost(2, time.Now().UTC(), nil, nil),
	}}
	skills := &skillStoreStub{skills: []pgrepo.SkillRecord{learnSkill("Go")}}

	service := NewService(posts, skills)
	result, err := service.Personalized(context.Background(), 10, Filters{})
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(result.Recommendations) != 0 {
		t.Fatalf("expected zero-score candidates to be dropped, got %d", len(result.Recommendations))
	}
}

func TestPersonalizedFilters(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	online := activePost(1, base, []string{"Go"}, nil)
	online.PreferredMeetingType = "online"
	online.ExperienceLevel = "beginner"
	offline := activePost(2, base.Add(time.Hour), []string{"Golang"}, nil)
	offline.PreferredMeetingType = "offline"
	offline.ExperienceLevel = "expert"
	both := activePost(3, base.Add(2*time.Hour), []string{"Go"}, nil)
	both.PreferredMeetingType = "both"
	both.ExperienceLevel = "expert"

	posts := &candidateStoreStub{posts: []pgrepo.PostRecord{online, offline, both}}
	skills := &skillStoreStub{skills: []pgrepo.SkillRecord{learnSkill("Go"), learnSkill("Golang")}}
	service := NewService(posts, skills)

	cases := []struct {
		name    string
		filters Filters
		wantIDs []int64
	}{
		{name: "no_filters", filters: Filters{}, wantIDs: []int64{3, 2, 1}},
		{name: "meeting_type_online_includes_both", filters: Filters{MeetingType: "online"}, wantIDs: []int64{3, 1}},
		{name: "experience_level_exact", filters: Filters{ExperienceLevel: "expert"}, wantIDs: []int64{3, 2}},
		{name: "experience_level_is_case_sensitive", filters: Filters{ExperienceLevel: "Expert"}, wantIDs: nil},
		{name: "skill_substring_case_insensitive", filters: Filters{Skill: "goLANG"}, wantIDs: []int64{2}},
		{name: "combined", filters: Filters{MeetingType: "offline", ExperienceLevel: "expert"}, wantIDs: []int64{2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := service.Personalized(context.Background(), 10, tc.filters)
			if err != nil {
				t.Fatalf("personalized: %v", err)
			}
			if len(result.Recommendations) != len(tc.wantIDs) {
				t.Fatalf("unexpected count: got %d want %d", len(result.Recommendations), len(tc.wantIDs))
			}
			for i, want := range tc.wantIDs {
				if got := result.Recommendations[i].Post.ID; got != want {
					t.Fatalf("unexpected post at %d: got %d want %d", i, got, want)
				}
			}
		})
	}
}

func TestPersonalizedLimitTruncates(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var records []pgrepo.PostRecord
	for i := int64(1); i <= 5; i++ {
		records = append(records, activePost(i, base.Add(time.Duration(i)*time.Minute), []string{"Go"}, nil))
	}
	posts := &candidateStoreStub{posts: records}
	skills := &skillStoreStub{skills: []pgrepo.SkillRecord{learnSkill("Go")}}

	service := NewService(posts, skills)
	result, err := service.Personalized(context.Background(), 10, Filters{Limit: 2})
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(result.Recommendations) != 2 {
		t.Fatalf("unexpected count: got %d want 2", len(result.Recommendations))
	}
	if result.Recommendations[0].Post.ID != 5 || result.Recommendations[1].Post.ID != 4 {
		t.Fatalf("unexpected order: %d, %d", result.Recommendations[0].Post.ID, result.Recommendations[1].Post.ID)
	}
}

func TestPersonalizedRejectsInvalidUser(t *testing.T) {
	service := NewService(&candidateStoreStub{}, &skillStoreStub{})
	if _, err := service.Personalized(context.Background(), 0, Filters{}); err != ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
