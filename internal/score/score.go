// Package score turns category counts into 0–100 scores and folds them
// into a single overall number. 100 always means "no adverse findings";
// a category with no rows on file scores neutral rather than zero.
package score

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/propply/compliance-engine/internal/category"
	"github.com/propply/compliance-engine/internal/model"
)

// Neutral is the score assigned when a category has nothing on file, or
// when identity resolution failed outright.
const Neutral = 100.0

// Weights maps categories to their share of the overall score. Only the
// categories present carry weight; the rest are scored but do not move
// the overall number.
type Weights map[model.Category]float64

// DefaultWeights mirrors the long-standing report weighting: the two
// violation categories dominate, elevators and electrical split the
// remainder. Boilers and certificates of occupancy are informational.
func DefaultWeights() Weights {
	return Weights{
		model.CategoryHousingViolations:  0.3,
		model.CategoryBuildingViolations: 0.3,
		model.CategoryElevatorDevices:    0.2,
		model.CategoryElectricalPermits:  0.2,
	}
}

// Validate checks that the weights form a convex combination.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return eris.New("score: no weights configured")
	}
	var sum float64
	for cat, weight := range w {
		if weight < 0 {
			return eris.Errorf("score: negative weight for %s", cat)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return eris.Errorf("score: weights sum to %.4f, want 1.0", sum)
	}
	return nil
}

// Category computes one category's score from its counts.
//
// Violation kind: each active violation subtracts its penalty from 100,
// floored at zero. Equipment kind: the score is the active share of
// devices on file, so a building whose devices are all current scores
// 100 and one with lapsed devices degrades proportionally.
func Category(kind category.ScoreKind, penalty float64, total, active int) float64 {
	if total == 0 {
		return Neutral
	}
	switch kind {
	case category.KindViolation:
		return math.Max(0, 100-float64(active)*penalty)
	case category.KindEquipment:
		return float64(active) / float64(total) * 100
	default:
		return Neutral
	}
}

// Overall folds per-category scores into the weighted overall number.
// A weighted category missing from scores counts as neutral.
func Overall(scores map[model.Category]float64, weights Weights) float64 {
	var overall float64
	for cat, weight := range weights {
		s, ok := scores[cat]
		if !ok {
			s = Neutral
		}
		overall += weight * s
	}
	return overall
}

// Round1 rounds to one decimal place for presentation.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
