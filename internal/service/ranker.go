package service

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/decision-engine/internal/cache"
	"github.com/kitbuilder587/decision-engine/internal/domain"
	"github.com/kitbuilder587/decision-engine/internal/metrics"
)

// Ranker scores a batch of options and returns them ordered by
// ascending dissolution risk.
type Ranker interface {
	Rank(ctx context.Context, opts []domain.Option) ([]domain.RankedOption, error)
}

type RankerConfig struct {
	CacheTTL    time.Duration
	Concurrency int
}

// RankerDeps - зависимости для Ranker; Cache и Metrics опциональны
type RankerDeps struct {
	Params  domain.Params
	Cache   cache.Cache
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Config  RankerConfig
}

type ranker struct {
	params  domain.Params
	cache   cache.Cache
	logger  *zap.Logger
	metrics *metrics.Metrics
	config  RankerConfig
}

func NewRanker(deps RankerDeps) (Ranker, error) {
	if deps.Params == (domain.Params{}) {
		deps.Params = domain.DefaultParams()
	}
	if err := deps.Params.Validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Config.CacheTTL == 0 {
		deps.Config.CacheTTL = time.Hour
	}
	if deps.Config.Concurrency < 1 {
		deps.Config.Concurrency = 4
	}

	return &ranker{
		params:  deps.Params,
		cache:   deps.Cache,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		config:  deps.Config,
	}, nil
}

func (r *ranker) Rank(ctx context.Context, opts []domain.Option) ([]domain.RankedOption, error) {
	start := time.Now()

	if r.metrics != nil {
		r.metrics.IncRanksInFlight()
		defer r.metrics.DecRanksInFlight()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// результаты кладутся по индексу входа, чтобы stable sort
	// сохранял исходный порядок при равном DR
	ranked := make([]domain.RankedOption, len(opts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)

	for i, opt := range opts {
		i, opt := i, opt // capture for goroutine
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			ev, err := r.evaluate(opt)
			if err != nil {
				return err
			}
			ranked[i] = domain.RankedOption{Option: opt, Evaluation: ev}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if r.metrics != nil {
			r.metrics.RecordRank("error", len(opts), time.Since(start))
		}
		r.logger.Warn("ranking failed",
			zap.Error(err),
			zap.Int("options", len(opts)),
		)
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DR < ranked[j].DR
	})

	vetoed := 0
	for _, ro := range ranked {
		if ro.Vetoed {
			vetoed++
		}
	}

	if r.metrics != nil {
		r.metrics.RecordRank("ok", len(opts), time.Since(start))
	}
	r.logger.Info("ranking completed",
		zap.Int("options", len(opts)),
		zap.Int("vetoed", vetoed),
		zap.Duration("took", time.Since(start)),
	)

	return ranked, nil
}

func (r *ranker) evaluate(opt domain.Option) (domain.Evaluation, error) {
	key := r.cacheKey(opt)

	if r.cache != nil {
		if ev, ok := r.cache.Get(key); ok {
			if r.metrics != nil {
				r.metrics.RecordCacheHit()
			}
			return ev, nil
		}
		if r.metrics != nil {
			r.metrics.RecordCacheMiss()
		}
	}

	ev, err := opt.Evaluate(r.params)
	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordEvaluation("error")
		}
		return domain.Evaluation{}, fmt.Errorf("option %q: %w", opt.Name, err)
	}

	if r.metrics != nil {
		r.metrics.RecordEvaluation("ok")
		if ev.Vetoed {
			r.metrics.RecordVeto()
		}
	}
	if r.cache != nil {
		r.cache.Set(key, ev, r.config.CacheTTL)
	}

	return ev, nil
}

// cacheKey хеширует имя, оценки и параметры: смена параметров
// инвалидирует кеш сама собой
func (r *ranker) cacheKey(opt domain.Option) string {
	h := sha256.New()
	h.Write([]byte(opt.Name))

	for _, v := range [...]float64{
		opt.Fit, opt.Phase, opt.Dissolution,
		r.params.Weights.Fit, r.params.Weights.Phase, r.params.Weights.Stability,
		r.params.Lambda, r.params.VetoThreshold,
	} {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}

	return fmt.Sprintf("rank:%x", h.Sum(nil))
}
