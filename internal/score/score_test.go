package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propply/compliance-engine/internal/category"
	"github.com/propply/compliance-engine/internal/model"
)

func TestCategory_Violation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		penalty float64
		total   int
		active  int
		want    float64
	}{
		{"no rows is neutral", 10, 0, 0, 100},
		{"rows but none active", 10, 5, 0, 100},
		{"two active at penalty ten", 10, 5, 2, 80},
		{"three active at penalty fifteen", 15, 4, 3, 55},
		{"floor at zero", 15, 20, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Category(category.KindViolation, tt.penalty, tt.total, tt.active)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCategory_Equipment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		total  int
		active int
		want   float64
	}{
		{"no devices is neutral", 0, 0, 100},
		{"all active", 4, 4, 100},
		{"half active", 4, 2, 50},
		{"none active", 3, 0, 0},
		{"one of three", 3, 1, 100.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Category(category.KindEquipment, 0, tt.total, tt.active)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestWeights_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultWeights().Validate())

	assert.Error(t, Weights{}.Validate())
	assert.Error(t, Weights{model.CategoryHousingViolations: 0.5}.Validate())
	assert.Error(t, Weights{
		model.CategoryHousingViolations:  1.5,
		model.CategoryBuildingViolations: -0.5,
	}.Validate())
}

func TestOverall(t *testing.T) {
	t.Parallel()

	weights := Weights{
		model.CategoryHousingViolations:  0.25,
		model.CategoryBuildingViolations: 0.25,
		model.CategoryElevatorDevices:    0.25,
		model.CategoryElectricalPermits:  0.25,
	}
	require.NoError(t, weights.Validate())

	scores := map[model.Category]float64{
		model.CategoryHousingViolations:  90,
		model.CategoryBuildingViolations: 70,
		model.CategoryElevatorDevices:    100,
		model.CategoryElectricalPermits:  100,
	}
	assert.InDelta(t, 90.0, Overall(scores, weights), 1e-9)
}

func TestOverall_MissingCategoryIsNeutral(t *testing.T) {
	t.Parallel()

	scores := map[model.Category]float64{
		model.CategoryHousingViolations:  80,
		model.CategoryBuildingViolations: 80,
	}
	// Elevator and electrical absent: treated as 100 each.
	got := Overall(scores, DefaultWeights())
	assert.InDelta(t, 0.3*80+0.3*80+0.2*100+0.2*100, got, 1e-9)
}

func TestOverall_DefaultWeightsIgnoreUnweighted(t *testing.T) {
	t.Parallel()

	scores := map[model.Category]float64{
		model.CategoryHousingViolations:     100,
		model.CategoryBuildingViolations:    100,
		model.CategoryElevatorDevices:       100,
		model.CategoryElectricalPermits:     100,
		model.CategoryBoilerDevices:         0,
		model.CategoryOccupancyCertificates: 0,
	}
	assert.InDelta(t, 100.0, Overall(scores, DefaultWeights()), 1e-9)
}

func TestRound1(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 66.7, Round1(100.0/1.5))
	assert.Equal(t, 90.0, Round1(90.0))
	assert.Equal(t, 33.3, Round1(100.0/3))
}
