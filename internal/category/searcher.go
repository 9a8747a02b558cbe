package category

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/propply/compliance-engine/internal/cache"
	"github.com/propply/compliance-engine/internal/metrics"
	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/internal/resilience"
	"github.com/propply/compliance-engine/pkg/socrata"
)

// Searcher runs one category's strategy cascade against the registry.
type Searcher struct {
	spec     Spec
	registry socrata.Client
	cache    cache.Cache // optional
}

// NewSearcher creates a Searcher. The cache may be nil.
func NewSearcher(spec Spec, registry socrata.Client, c cache.Cache) *Searcher {
	return &Searcher{spec: spec, registry: registry, cache: c}
}

// Spec returns the category declaration the searcher runs.
func (s *Searcher) Spec() Spec { return s.spec }

// Search iterates the declared strategies in order. Strategies whose
// identifiers are missing are skipped; the first strategy returning
// rows wins and nothing after it runs. A registry error fails only
// that strategy: it is logged and the cascade advances, except for a
// malformed filter, which is a programming error and propagates.
// Exhausting every strategy yields an empty result with no
// StrategyUsed — a valid terminal state.
func (s *Searcher) Search(ctx context.Context, ids model.IdentifierSet) (model.CategoryResult, error) {
	result := model.CategoryResult{Category: s.spec.Category, Rows: []model.Row{}}

	for _, strat := range s.spec.Strategies {
		if !strat.Eligible(ids) {
			continue
		}

		where := strat.Build(ids)
		rows, err := s.fetch(ctx, strat.Kind, where)
		if err != nil {
			if resilience.IsMalformedQuery(err) {
				return result, err
			}
			metrics.RegistryQueries.WithLabelValues(s.spec.Dataset, string(strat.Kind), metrics.OutcomeError).Inc()
			zap.L().Warn("category: strategy failed, advancing",
				zap.String("category", string(s.spec.Category)),
				zap.String("strategy", string(strat.Kind)),
				zap.Error(err),
			)
			continue
		}

		if len(rows) == 0 {
			metrics.RegistryQueries.WithLabelValues(s.spec.Dataset, string(strat.Kind), metrics.OutcomeEmpty).Inc()
			continue
		}

		metrics.RegistryQueries.WithLabelValues(s.spec.Dataset, string(strat.Kind), metrics.OutcomeHit).Inc()
		result.StrategyUsed = strat.Kind
		result.Rows = rows
		result.RowCount = len(rows)
		return result, nil
	}

	return result, nil
}

func (s *Searcher) fetch(ctx context.Context, kind model.StrategyKind, where string) ([]socrata.Row, error) {
	key := cache.Key(s.spec.Dataset, string(kind), where)
	if s.cache != nil {
		if rows, ok := s.cache.Get(ctx, key); ok {
			metrics.CacheOps.WithLabelValues(metrics.ResultCacheHit).Inc()
			return rows, nil
		}
		metrics.CacheOps.WithLabelValues(metrics.ResultCacheMiss).Inc()
	}

	start := time.Now()
	rows, err := s.registry.Get(ctx, s.spec.Dataset, socrata.Query{
		Where:  where,
		Select: s.spec.Select,
		Order:  s.spec.Order,
		Limit:  s.spec.Limit,
	})
	metrics.RegistryQuerySeconds.WithLabelValues(s.spec.Dataset).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, rows)
	}
	return rows, nil
}
