// Package aggregate orchestrates a full compliance report: resolve the
// address, fan the category searches out concurrently, score the
// results, and assemble the flat record. Categories are isolated from
// each other — one registry failing never blanks the rest.
package aggregate

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/propply/compliance-engine/internal/category"
	"github.com/propply/compliance-engine/internal/identity"
	"github.com/propply/compliance-engine/internal/metrics"
	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/internal/score"
)

// Resolver is the identity lookup the aggregator depends on.
type Resolver interface {
	Resolve(ctx context.Context, address, boroughHint string) (*identity.Resolution, error)
}

// Aggregator builds compliance records.
type Aggregator struct {
	resolver  Resolver
	searchers []*category.Searcher
	weights   score.Weights
}

// New creates an Aggregator over the given searchers. Weights must
// validate; pass score.DefaultWeights() for the standard report.
func New(resolver Resolver, searchers []*category.Searcher, weights score.Weights) (*Aggregator, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{resolver: resolver, searchers: searchers, weights: weights}, nil
}

// Report resolves the address and aggregates every category into one
// record. Resolution failure is not an error: the caller gets a neutral
// record flagged resolution_failed so batch runs keep moving.
func (a *Aggregator) Report(ctx context.Context, address, boroughHint string) (*model.ComplianceRecord, error) {
	res, err := a.resolver.Resolve(ctx, address, boroughHint)
	if err != nil {
		metrics.Aggregations.WithLabelValues(metrics.OutcomeNotFound).Inc()
		zap.L().Warn("aggregate: identity resolution failed",
			zap.String("address", address),
			zap.Error(err),
		)
		return neutralRecord(address), nil
	}
	metrics.Aggregations.WithLabelValues(metrics.OutcomeResolved).Inc()

	results := a.searchAll(ctx, res.Identifiers)
	record := assemble(res, results, a.weights)
	return record, nil
}

// searchAll runs every category cascade concurrently. A category that
// errors (including a malformed filter) is logged and reported empty;
// nothing here returns an error because category isolation is the
// contract.
func (a *Aggregator) searchAll(ctx context.Context, ids model.IdentifierSet) map[model.Category]categoryOutcome {
	var mu sync.Mutex
	results := make(map[model.Category]categoryOutcome, len(a.searchers))

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range a.searchers {
		g.Go(func() error {
			spec := s.Spec()
			result, err := s.Search(gctx, ids)
			if err != nil {
				zap.L().Error("aggregate: category search failed",
					zap.String("category", string(spec.Category)),
					zap.Error(err),
				)
				result = model.CategoryResult{Category: spec.Category, Rows: []model.Row{}}
			}
			total, active := spec.Counts(result.Rows)
			outcome := categoryOutcome{
				result: result,
				total:  total,
				active: active,
				score:  score.Category(spec.Kind, spec.Penalty, total, active),
			}
			mu.Lock()
			results[spec.Category] = outcome
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // goroutines above never return an error

	return results
}

type categoryOutcome struct {
	result model.CategoryResult
	total  int
	active int
	score  float64
}

// joinSources builds the provenance field from the resolution source.
func joinSources(resolutionSource string) string {
	return strings.Join([]string{model.SourceOpenData, resolutionSource}, ",")
}
