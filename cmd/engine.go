package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/propply/compliance-engine/internal/aggregate"
	"github.com/propply/compliance-engine/internal/cache"
	"github.com/propply/compliance-engine/internal/category"
	"github.com/propply/compliance-engine/internal/identity"
	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/internal/relay"
	"github.com/propply/compliance-engine/internal/score"
	"github.com/propply/compliance-engine/internal/store"
	"github.com/propply/compliance-engine/pkg/geosearch"
	"github.com/propply/compliance-engine/pkg/socrata"
)

// engineEnv bundles the wired subsystems a command needs. Store and
// Relay are nil when their backends are disabled.
type engineEnv struct {
	Aggregator *aggregate.Aggregator
	Store      store.Store
	Relay      *relay.Relay
}

// Close releases held resources.
func (e *engineEnv) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
}

// initEngine wires the registry client, resolver, category searchers,
// cache, scorer, store, and webhook relay from config.
func initEngine(ctx context.Context) (*engineEnv, error) {
	registry := socrata.NewClient(
		socrata.WithBaseURL(cfg.Socrata.BaseURL),
		socrata.WithCredentials(cfg.Socrata.Username, cfg.Socrata.Password),
		socrata.WithRateLimit(cfg.Socrata.RatePerSecond),
		socrata.WithTimeout(time.Duration(cfg.Socrata.TimeoutSecs)*time.Second),
	)
	geo := geosearch.NewClient(
		geosearch.WithBaseURL(cfg.GeoSearch.BaseURL),
	)

	resolver := identity.NewResolver(geo, registry)

	specs := category.DefaultSpecs()
	if cfg.Socrata.CategoryFile != "" {
		loaded, err := category.LoadSpecs(cfg.Socrata.CategoryFile)
		if err != nil {
			return nil, err
		}
		specs = loaded
	}

	queryCache, err := initCache()
	if err != nil {
		return nil, err
	}

	searchers := make([]*category.Searcher, 0, len(specs))
	for _, spec := range specs {
		searchers = append(searchers, category.NewSearcher(spec, registry, queryCache))
	}

	weights, err := scoreWeights()
	if err != nil {
		return nil, err
	}

	agg, err := aggregate.New(resolver, searchers, weights)
	if err != nil {
		return nil, err
	}

	env := &engineEnv{Aggregator: agg}

	switch cfg.Store.Driver {
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
		if err != nil {
			return nil, err
		}
		env.Store = st
	case "sqlite":
		st, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		env.Store = st
	case "off", "":
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if env.Store != nil {
		if err := env.Store.Migrate(ctx); err != nil {
			env.Close()
			return nil, err
		}
	}

	if cfg.Webhook.URL != "" {
		env.Relay = relay.New(cfg.Webhook.URL, relay.WithSource(cfg.Webhook.Source))
	}

	return env, nil
}

func initCache() (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "memory", "":
		return cache.NewMemory(cfg.Cache.TTL()), nil
	case "redis":
		opts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			return nil, eris.Wrap(err, "parse redis url")
		}
		return cache.NewRedis(redis.NewClient(opts), cfg.Cache.TTL()), nil
	case "off":
		return nil, nil
	default:
		return nil, eris.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// scoreWeights translates config weights into the typed map, falling
// back to the defaults when none are configured.
func scoreWeights() (score.Weights, error) {
	if len(cfg.Score.Weights) == 0 {
		return score.DefaultWeights(), nil
	}

	known := make(map[model.Category]bool, len(model.AllCategories))
	for _, cat := range model.AllCategories {
		known[cat] = true
	}

	weights := make(score.Weights, len(cfg.Score.Weights))
	for name, w := range cfg.Score.Weights {
		cat := model.Category(name)
		if !known[cat] {
			return nil, eris.Errorf("unknown category %q in score weights", name)
		}
		weights[cat] = w
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return weights, nil
}
