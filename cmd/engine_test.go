package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propply/compliance-engine/internal/config"
	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/internal/score"
)

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	orig := cfg
	cfg = c
	t.Cleanup(func() { cfg = orig })
}

func TestScoreWeights_Defaults(t *testing.T) {
	withConfig(t, &config.Config{})

	weights, err := scoreWeights()
	require.NoError(t, err)
	assert.Equal(t, score.DefaultWeights(), weights)
}

func TestScoreWeights_Configured(t *testing.T) {
	withConfig(t, &config.Config{Score: config.ScoreConfig{Weights: map[string]float64{
		"housing_violations":  0.5,
		"building_violations": 0.5,
	}}})

	weights, err := scoreWeights()
	require.NoError(t, err)
	assert.Equal(t, 0.5, weights[model.CategoryHousingViolations])
	assert.Len(t, weights, 2)
}

func TestScoreWeights_UnknownCategory(t *testing.T) {
	withConfig(t, &config.Config{Score: config.ScoreConfig{Weights: map[string]float64{
		"parking_tickets": 1.0,
	}}})

	_, err := scoreWeights()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestScoreWeights_InvalidSum(t *testing.T) {
	withConfig(t, &config.Config{Score: config.ScoreConfig{Weights: map[string]float64{
		"housing_violations": 0.5,
	}}})

	_, err := scoreWeights()
	require.Error(t, err)
}

func TestInitCache_Backends(t *testing.T) {
	withConfig(t, &config.Config{Cache: config.CacheConfig{Backend: "memory", TTLMins: 5}})
	c, err := initCache()
	require.NoError(t, err)
	assert.NotNil(t, c)

	cfg.Cache.Backend = "off"
	c, err = initCache()
	require.NoError(t, err)
	assert.Nil(t, c)

	cfg.Cache.Backend = "carrier-pigeon"
	_, err = initCache()
	require.Error(t, err)
}
