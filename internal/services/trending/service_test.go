package trending

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
	redisrepo "github.com/Hareshku/growtogather-backend/internal/repo/redis"
)

type postStoreStub struct {
	skillSets [][]string
	popular   []pgrepo.PostRecord
	listCalls int
}

func (s *postStoreStub) ListActiveSkillNames(_ context.Context) ([][]string, error) {
	s.listCalls++
	return s.skillSets, nil
}

func (s *postStoreStub) ListPopular(_ context.Context, limit int) ([]pgrepo.PostRecord, error) {
	if limit > len(s.popular) {
		limit = len(s.popular)
	}
	return s.popular[:limit], nil
}

type cacheStub struct {
	data map[string][]byte
}

func newCacheStub() *cacheStub {
	return &cacheStub{data: make(map[string][]byte)}
}

func (c *cacheStub) Get(_ context.Context, key string) ([]byte, error) {
	raw, ok := c.data[key]
	if !ok {
		return nil, redisrepo.ErrCacheMiss
	}
	return raw, nil
}

func (c *cacheStub) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func TestSnapshotCountsNormalizedSkillsAcrossBothSets(t *testing.T) {
	posts := &postStoreStub{
		skillSets: [][]string{
			{"Go", "  SPANISH "},
			{"go", "Piano"},
			{"spanish"},
		},
		popular: []pgrepo.PostRecord{{ID: 7, ViewsCount: 120}},
	}
	svc := NewService(posts, nil, zap.NewNop())

	snapshot, err := svc.Snapshot(context.Background(), 10, 10)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	want := []SkillCount{
		{Skill: "go", Count: 2},
		{Skill: "spanish", Count: 2},
		{Skill: "piano", Count: 1},
	}
	if len(snapshot.TrendingSkills) != len(want) {
		t.Fatalf("unexpected skill count: got %d want %d", len(snapshot.TrendingSkills), len(want))
	}
	for i, expect := range want {
		got := snapshot.TrendingSkills[i]
		if got != expect {
			t.Fatalf("position %d: got %+v want %+v", i, got, expect)
		}
	}
	if len(snapshot.PopularPosts) != 1 || snapshot.PopularPosts[0].ID != 7 {
		t.Fatalf("unexpected popular posts: %+v", snapshot.PopularPosts)
	}
}

func TestSnapshotTieBreakIsAlphabetical(t *testing.T) {
	posts := &postStoreStub{
		skillSets: [][]string{{"zulu"}, {"alpha"}, {"mike"}},
	}
	svc := NewService(posts, nil, zap.NewNop())

	snapshot, err := svc.Snapshot(context.Background(), 10, 10)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	got := []string{snapshot.TrendingSkills[0].Skill, snapshot.TrendingSkills[1].Skill, snapshot.TrendingSkills[2].Skill}
	if got[0] != "alpha" || got[1] != "mike" || got[2] != "zulu" {
		t.Fatalf("unexpected tie-break order: %v", got)
	}
}

func TestSnapshotServedFromCache(t *testing.T) {
	posts := &postStoreStub{skillSets: [][]string{{"go"}}}
	cache := newCacheStub()
	svc := NewService(posts, cache, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Snapshot(ctx, 10, 10); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	if _, err := svc.Snapshot(ctx, 10, 10); err != nil {
		t.Fatalf("second snapshot: %v", err)
	}
	if posts.listCalls != 1 {
		t.Fatalf("expected cached second call, store queried %d times", posts.listCalls)
	}
}

func TestRebuildRefreshesCache(t *testing.T) {
	posts := &postStoreStub{skillSets: [][]string{{"go"}}}
	cache := newCacheStub()
	svc := NewService(posts, cache, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Rebuild(ctx); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	posts.skillSets = [][]string{{"rust"}, {"rust"}}
	if _, err := svc.Rebuild(ctx); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	snapshot, err := svc.Snapshot(ctx, 10, 10)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot.TrendingSkills) != 1 || snapshot.TrendingSkills[0] != (SkillCount{Skill: "rust", Count: 2}) {
		t.Fatalf("cache not refreshed: %+v", snapshot.TrendingSkills)
	}
	if posts.listCalls != 2 {
		t.Fatalf("snapshot should hit the refreshed cache, store queried %d times", posts.listCalls)
	}
}

func TestSnapshotLimitClamp(t *testing.T) {
	posts := &postStoreStub{skillSets: [][]string{{"a"}, {"b"}, {"c"}}}
	svc := NewService(posts, nil, zap.NewNop())

	snapshot, err := svc.Snapshot(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot.TrendingSkills) != 2 {
		t.Fatalf("limit not applied: got %d skills", len(snapshot.TrendingSkills))
	}
}
