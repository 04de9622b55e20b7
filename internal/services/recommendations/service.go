package recommendations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	"github.com/Hareshku/growtogather-backend/internal/domain/rules"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
)

const (
	defaultLimit        = 20
	maxLimit            = 50
	defaultCandidateCap = 500
)

var ErrValidation = errors.New("validation error")

const (
	MatchTypeMutual   = "mutual"
	MatchTypeTeaching = "teaching"
	MatchTypeLearning = "learning"

	SkillMatchLearningOpportunity = "learning_opportunity"
	SkillMatchTeachingOpportunity = "teaching_opportunity"
)

type CandidateStore interface {
	ListCandidates(ctx context.Context, viewerUserID int64, limit int) ([]pgrepo.PostRecord, error)
}

type SkillStore interface {
	ListByUser(ctx context.Context, userID int64) ([]pgrepo.SkillRecord, error)
}

type Filters struct {
	Skill           string
	ExperienceLevel string
	MeetingType     string
	Limit           int
}

// SkillMatch is one typed pairing between a requester skill and a post skill.
// UserSkill and PostSkill keep the original spelling of each side.
type SkillMatch struct {
	Type      string
	UserSkill string
	PostSkill string
}

type Recommendation struct {
	Post         pgrepo.PostRecord
	Score        float64
	MatchType    string
	MatchLabel   rules.MatchLabel
	MatchReasons []string
	SkillMatches []SkillMatch
}

type SkillsAnalysis struct {
	TeachCount int
	LearnCount int
	HasSkills  bool
}

type Result struct {
	Recommendations []Recommendation
	Analysis        SkillsAnalysis
}

// Limits tunes the read side of ranking. Zero values fall back to the
// package defaults.
type Limits struct {
	CandidateCap int
	DefaultLimit int
	MaxLimit     int
}

type Service struct {
	posts  CandidateStore
	skills SkillStore
	limits Limits
}

func NewService(posts CandidateStore, skills SkillStore) *Service {
	return &Service{
		posts:  posts,
		skills: skills,
		limits: Limits{
			CandidateCap: defaultCandidateCap,
			DefaultLimit: defaultLimit,
			MaxLimit:     maxLimit,
		},
	}
}

// WithLimits overrides the ranking limits, typically from configuration.
func (s *Service) WithLimits(limits Limits) *Service {
	if limits.CandidateCap > 0 {
		s.limits.CandidateCap = limits.CandidateCap
	}
	if limits.DefaultLimit > 0 {
		s.limits.DefaultLimit = limits.DefaultLimit
	}
	if limits.MaxLimit > 0 {
		s.limits.MaxLimit = limits.MaxLimit
	}
	return s
}

// Personalized ranks active posts against the requester's skill lists. An
// empty result is a valid outcome, never an error.
func (s *Service) Personalized(ctx context.Context, userID int64, filters Filters) (Result, error) {
	if userID <= 0 {
		return Result{}, ErrValidation
	}
	if s.posts == nil || s.skills == nil {
		return Result{}, fmt.Errorf("recommendation dependencies are not configured")
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = s.limits.DefaultLimit
	}
	if limit > s.limits.MaxLimit {
		limit = s.limits.MaxLimit
	}

	userSkills, err := s.skills.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("load requester skills: %w", err)
	}

	wantsToLearn, canTeach := splitSkills(userSkills)
	analysis := SkillsAnalysis{
		TeachCount: len(canTeach),
		LearnCount: len(wantsToLearn),
		HasSkills:  len(canTeach)+len(wantsToLearn) > 0,
	}

	// A requester with no skills matches nothing; skip the candidate scan.
	if !analysis.HasSkills {
		return Result{Recommendations: []Recommendation{}, Analysis: analysis}, nil
	}

	candidates, err := s.posts.ListCandidates(ctx, userID, s.limits.CandidateCap)
	if err != nil {
		return Result{}, fmt.Errorf("load candidate posts: %w", err)
	}

	scored := make([]Recommendation, 0, len(candidates))
	for _, post := range candidates {
		if !matchesFilters(post, filters) {
			continue
		}

		rec, ok := Score(wantsToLearn, canTeach, post)
		if !ok {
			continue
		}
		scored = append(scored, rec)
	}

	// Score descending, then newest first. The post id tiebreak keeps the
	// order reproducible for pagination across identical timestamps.
	sort.SliceStable(scored, func(i, j int) bool {
		left := scored[i]
		right := scored[j]
		if left.Score != right.Score {
			return left.Score > right.Score
		}
		if !left.Post.CreatedAt.Equal(right.Post.CreatedAt) {
			return left.Post.CreatedAt.After(right.Post.CreatedAt)
		}
		return left.Post.ID > right.Post.ID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	return Result{Recommendations: scored, Analysis: analysis}, nil
}

// Score evaluates a single candidate post against the requester's skill
// lists. Returns false when nothing matches; zero-score posts are dropped,
// not returned.
func Score(wantsToLearn, canTeach []string, post pgrepo.PostRecord) (Recommendation, bool) {
	postTeaches := normalizedIndex(post.SkillsToTeach)
	postLearns := normalizedIndex(post.SkillsToLearn)

	var matches []SkillMatch
	var reasons []string
	learningHits := 0
	teachingHits := 0

	for _, skill := range wantsToLearn {
		normalized := rules.NormalizeSkill(skill)
		if normalized == "" {
			continue
		}
		if offered, ok := postTeaches[normalized]; ok {
			matches = append(matches, SkillMatch{
				Type:      SkillMatchLearningOpportunity,
				UserSkill: skill,
				PostSkill: offered,
			})
			reasons = append(reasons, fmt.Sprintf("They can teach you %s", offered))
			learningHits++
		}
	}

	for _, skill := range canTeach {
		normalized := rules.NormalizeSkill(skill)
		if normalized == "" {
			continue
		}
		if wanted, ok := postLearns[normalized]; ok {
			matches = append(matches, SkillMatch{
				Type:      SkillMatchTeachingOpportunity,
				UserSkill: skill,
				PostSkill: wanted,
			})
			reasons = append(reasons, fmt.Sprintf("They want to learn %s", wanted))
			teachingHits++
		}
	}

	if len(matches) == 0 {
		return Recommendation{}, false
	}

	total := len(wantsToLearn) + len(canTeach)
	if total < 1 {
		total = 1
	}
	score := float64(len(matches)) / float64(total)
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}

	// Match type is named from the requester's perspective: "learning" when
	// the post offers something the requester wants to learn, "teaching"
	// when the post author wants something the requester can teach.
	matchType := MatchTypeTeaching
	switch {
	case learningHits > 0 && teachingHits > 0:
		matchType = MatchTypeMutual
	case learningHits > 0:
		matchType = MatchTypeLearning
	}

	return Recommendation{
		Post:         post,
		Score:        score,
		MatchType:    matchType,
		MatchLabel:   rules.MatchLabelForScore(score),
		MatchReasons: reasons,
		SkillMatches: matches,
	}, true
}

func matchesFilters(post pgrepo.PostRecord, filters Filters) bool {
	if skill := strings.TrimSpace(filters.Skill); skill != "" {
		needle := strings.ToLower(skill)
		found := false
		for _, name := range post.SkillsToTeach {
			if strings.Contains(strings.ToLower(name), needle) {
				found = true
				break
			}
		}
		if !found {
			for _, name := range post.SkillsToLearn {
				if strings.Contains(strings.ToLower(name), needle) {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}

	if level := strings.TrimSpace(filters.ExperienceLevel); level != "" {
		// Levels are lowercase enum values; anything else matches nothing.
		if post.ExperienceLevel != level {
			return false
		}
	}

	if meetingType := strings.TrimSpace(filters.MeetingType); meetingType != "" {
		// A post open to both formats satisfies any requested filter.
		if post.PreferredMeetingType != string(enums.MeetingTypeBoth) &&
			post.PreferredMeetingType != meetingType {
			return false
		}
	}

	return true
}

// splitSkills partitions the requester's typed skill rows, deduplicating by
// normalized name within each list while keeping the stored spelling.
func splitSkills(skills []pgrepo.SkillRecord) (wantsToLearn, canTeach []string) {
	seenLearn := make(map[string]struct{})
	seenTeach := make(map[string]struct{})

	for _, skill := range skills {
		normalized := rules.NormalizeSkill(skill.SkillName)
		if normalized == "" {
			continue
		}
		switch skill.SkillType {
		case string(enums.SkillTypeLearn):
			if _, ok := seenLearn[normalized]; ok {
				continue
			}
			seenLearn[normalized] = struct{}{}
			wantsToLearn = append(wantsToLearn, strings.TrimSpace(skill.SkillName))
		case string(enums.SkillTypeTeach):
			if _, ok := seenTeach[normalized]; ok {
				continue
			}
			seenTeach[normalized] = struct{}{}
			canTeach = append(canTeach, strings.TrimSpace(skill.SkillName))
		}
	}
	return wantsToLearn, canTeach
}

func normalizedIndex(names []string) map[string]string {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]string, len(names))
	for _, name := range names {
		normalized := rules.NormalizeSkill(name)
		if normalized == "" {
			continue
		}
		if _, ok := out[normalized]; !ok {
			out[normalized] = strings.TrimSpace(name)
		}
	}
	return out
}
