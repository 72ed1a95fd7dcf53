package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/decision-engine/internal/cache/memory"
	"github.com/kitbuilder587/decision-engine/internal/domain"
)

// CountingCache оборачивает memory.Cache и считает обращения
type CountingCache struct {
	mu     sync.Mutex
	inner  *memory.Cache
	gets   int
	hits   int
	sets   int
}

func NewCountingCache() *CountingCache {
	return &CountingCache{inner: memory.New()}
}

func (c *CountingCache) Get(key string) (domain.Evaluation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	ev, ok := c.inner.Get(key)
	if ok {
		c.hits++
	}
	return ev, ok
}

func (c *CountingCache) Set(key string, ev domain.Evaluation, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.inner.Set(key, ev, ttl)
}

func (c *CountingCache) Delete(key string) { c.inner.Delete(key) }
func (c *CountingCache) Stop()             { c.inner.Stop() }

func (c *CountingCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

const eps = 1e-9

func jogRestOptions() []domain.Option {
	return []domain.Option{
		{Name: "Jog", Ratings: domain.Ratings{Fit: 0.8, Phase: 0.6, Dissolution: 0.2}},
		{Name: "Rest", Ratings: domain.Ratings{Fit: 0.3, Phase: 0.9, Dissolution: 0.1}},
	}
}

func TestRanker_Rank(t *testing.T) {
	r, err := NewRanker(RankerDeps{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("NewRanker() error = %v", err)
	}

	ranked, err := r.Rank(context.Background(), jogRestOptions())
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if len(ranked) != 2 {
		t.Fatalf("Rank() returned %d results, want 2", len(ranked))
	}
	if ranked[0].Name != "Rest" || ranked[1].Name != "Jog" {
		t.Errorf("Rank() order = [%s, %s], want [Rest, Jog]", ranked[0].Name, ranked[1].Name)
	}

	wantRestDR := 0.7*0.1 + 0.3*(1-(0.3+0.9+0.9)/3)
	if math.Abs(ranked[0].DR-wantRestDR) > eps {
		t.Errorf("Rest DR = %v, want %v", ranked[0].DR, wantRestDR)
	}
}

func TestRanker_Rank_UsesCache(t *testing.T) {
	cc := NewCountingCache()
	defer cc.Stop()

	r, err := NewRanker(RankerDeps{
		Cache:  cc,
		Logger: zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewRanker() error = %v", err)
	}

	first, err := r.Rank(context.Background(), jogRestOptions())
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if cc.Hits() != 0 {
		t.Errorf("first Rank() got %d cache hits, want 0", cc.Hits())
	}

	second, err := r.Rank(context.Background(), jogRestOptions())
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if cc.Hits() != 2 {
		t.Errorf("second Rank() got %d cache hits, want 2", cc.Hits())
	}

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("cached result differs at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRanker_Rank_FailFast(t *testing.T) {
	r, err := NewRanker(RankerDeps{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("NewRanker() error = %v", err)
	}

	opts := []domain.Option{
		{Name: "ok", Ratings: domain.Ratings{Fit: 0.5, Phase: 0.5, Dissolution: 0.5}},
		{Name: "broken", Ratings: domain.Ratings{Fit: 1.2}},
	}

	ranked, err := r.Rank(context.Background(), opts)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Rank() error = %v, want ErrInvalidInput", err)
	}
	if ranked != nil {
		t.Errorf("Rank() = %v, want nil on error", ranked)
	}
}

func TestRanker_Rank_CancelledContext(t *testing.T) {
	r, err := NewRanker(RankerDeps{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("NewRanker() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Rank(ctx, jogRestOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("Rank() error = %v, want context.Canceled", err)
	}
}

func TestRanker_Rank_StableTieBreak(t *testing.T) {
	r, err := NewRanker(RankerDeps{
		Logger: zap.NewNop(),
		Config: RankerConfig{Concurrency: 8},
	})
	if err != nil {
		t.Fatalf("NewRanker() error = %v", err)
	}

	// одинаковые оценки: порядок входа должен сохраниться
	same := domain.Ratings{Fit: 0.4, Phase: 0.4, Dissolution: 0.4}
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	opts := make([]domain.Option, 0, len(names))
	for _, n := range names {
		opts = append(opts, domain.Option{Name: n, Ratings: same})
	}

	ranked, err := r.Rank(context.Background(), opts)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	for i, n := range names {
		if ranked[i].Name != n {
			t.Errorf("Rank()[%d] = %s, want %s", i, ranked[i].Name, n)
		}
	}
}

func TestRanker_Rank_KeepsVetoed(t *testing.T) {
	r, err := NewRanker(RankerDeps{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("NewRanker() error = %v", err)
	}

	opts := []domain.Option{
		{Name: "risky", Ratings: domain.Ratings{Fit: 0.9, Phase: 0.9, Dissolution: 0.9}},
		{Name: "safe", Ratings: domain.Ratings{Fit: 0.5, Phase: 0.5, Dissolution: 0.1}},
	}

	ranked, err := r.Rank(context.Background(), opts)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if len(ranked) != 2 {
		t.Fatalf("Rank() dropped vetoed option, got %d results", len(ranked))
	}
	if last := ranked[len(ranked)-1]; last.Name != "risky" || !last.Vetoed {
		t.Errorf("Rank() last = %s (vetoed=%v), want risky with veto flag", last.Name, last.Vetoed)
	}
}

func TestNewRanker_InvalidParams(t *testing.T) {
	_, err := NewRanker(RankerDeps{
		Params: domain.Params{
			Weights: domain.DefaultWeights(),
			Lambda:  2,
		},
	})
	if !errors.Is(err, domain.ErrLambdaOutOfRange) {
		t.Errorf("NewRanker() error = %v, want ErrLambdaOutOfRange", err)
	}
}
