package trending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	"github.com/Hareshku/growtogather-backend/internal/domain/model"
	"github.com/Hareshku/growtogather-backend/internal/domain/rules"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
	redisrepo "github.com/Hareshku/growtogather-backend/internal/repo/redis"
)

const (
	defaultSkillLimit = 10
	defaultPostLimit  = 10
	maxLimit          = 50

	snapshotCacheKey = "trending:snapshot"
	snapshotCacheTTL = 5 * time.Minute
)

type PostStore interface {
	ListActiveSkillNames(ctx context.Context) ([][]string, error)
	ListPopular(ctx context.Context, limit int) ([]pgrepo.PostRecord, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// Snapshot is also the cache payload; model.Post keeps the cached JSON
// schema stable across releases.
type Snapshot struct {
	TrendingSkills []SkillCount `json:"trendingSkills"`
	PopularPosts   []model.Post `json:"popularPosts"`
	GeneratedAt    time.Time    `json:"generatedAt"`
}

type Service struct {
	posts PostStore
	cache Cache
	log   *zap.Logger
	now   func() time.Time
}

func NewService(posts PostStore, cache Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		posts: posts,
		cache: cache,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot returns the trending aggregation, served from the short-lived
// cache when possible. The aggregation has no personalization, so one
// snapshot is valid for every caller.
func (s *Service) Snapshot(ctx context.Context, skillLimit, postLimit int) (Snapshot, error) {
	if s.posts == nil {
		return Snapshot{}, fmt.Errorf("trending service is not configured")
	}
	skillLimit = clampLimit(skillLimit, defaultSkillLimit)
	postLimit = clampLimit(postLimit, defaultPostLimit)

	if cached, ok := s.fromCache(ctx); ok {
		return truncate(cached, skillLimit, postLimit), nil
	}

	snapshot, err := s.Rebuild(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return truncate(snapshot, skillLimit, postLimit), nil
}

// Rebuild computes the aggregation from the store and refreshes the cache.
// The warm worker calls it on a schedule; request handlers fall back to it
// on a cache miss.
func (s *Service) Rebuild(ctx context.Context) (Snapshot, error) {
	skillSets, err := s.posts.ListActiveSkillNames(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list active skill names: %w", err)
	}

	counts := make(map[string]int)
	for _, set := range skillSets {
		for _, raw := range set {
			name := rules.NormalizeSkill(raw)
			if name == "" {
				continue
			}
			counts[name]++
		}
	}

	skills := make([]SkillCount, 0, len(counts))
	for name, count := range counts {
		skills = append(skills, SkillCount{Skill: name, Count: count})
	}
	sort.Slice(skills, func(i, j int) bool {
		if skills[i].Count != skills[j].Count {
			return skills[i].Count > skills[j].Count
		}
		return skills[i].Skill < skills[j].Skill
	})

	popular, err := s.posts.ListPopular(ctx, maxLimit)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list popular posts: %w", err)
	}
	posts := make([]model.Post, 0, len(popular))
	for _, rec := range popular {
		posts = append(posts, postModel(rec))
	}

	snapshot := Snapshot{
		TrendingSkills: skills,
		PopularPosts:   posts,
		GeneratedAt:    s.now(),
	}
	s.store(ctx, snapshot)
	return snapshot, nil
}

func (s *Service) fromCache(ctx context.Context) (Snapshot, bool) {
	if s.cache == nil {
		return Snapshot{}, false
	}
	raw, err := s.cache.Get(ctx, snapshotCacheKey)
	if err != nil {
		if !errors.Is(err, redisrepo.ErrCacheMiss) {
			s.log.Warn("trending cache read failed", zap.Error(err))
		}
		return Snapshot{}, false
	}
	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.log.Warn("trending cache payload is corrupt", zap.Error(err))
		return Snapshot{}, false
	}
	return snapshot, true
}

func (s *Service) store(ctx context.Context, snapshot Snapshot) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Warn("trending snapshot marshal failed", zap.Error(err))
		return
	}
	// Cache failures degrade to recomputation, never to an error response.
	if err := s.cache.Set(ctx, snapshotCacheKey, raw, snapshotCacheTTL); err != nil {
		s.log.Warn("trending cache write failed", zap.Error(err))
	}
}

func truncate(snapshot Snapshot, skillLimit, postLimit int) Snapshot {
	if len(snapshot.TrendingSkills) > skillLimit {
		snapshot.TrendingSkills = snapshot.TrendingSkills[:skillLimit]
	}
	if len(snapshot.PopularPosts) > postLimit {
		snapshot.PopularPosts = snapshot.PopularPosts[:postLimit]
	}
	return snapshot
}

func postModel(rec pgrepo.PostRecord) model.Post {
	return model.Post{
		ID:                   rec.ID,
		AuthorID:             rec.AuthorID,
		AuthorName:           rec.AuthorName,
		Title:                rec.Title,
		Description:          rec.Description,
		SkillsToTeach:        rec.SkillsToTeach,
		SkillsToLearn:        rec.SkillsToLearn,
		ExperienceLevel:      enums.ExperienceLevel(rec.ExperienceLevel),
		PreferredMeetingType: enums.MeetingType(rec.PreferredMeetingType),
		Status:               enums.PostStatus(rec.Status),
		Approved:             rec.Approved,
		ViewsCount:           rec.ViewsCount,
		CreatedAt:            rec.CreatedAt,
		UpdatedAt:            rec.UpdatedAt,
	}
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
