package aggregate

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propply/compliance-engine/internal/identity"
	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/internal/score"
)

// emptyRows is the serialized form for a category with nothing on file.
const emptyRows = "[]"

// assemble flattens the resolved identifiers and category outcomes into
// the record shape consumers see. Scores are rounded here, once.
func assemble(res *identity.Resolution, results map[model.Category]categoryOutcome, weights score.Weights) *model.ComplianceRecord {
	ids := res.Identifiers
	record := &model.ComplianceRecord{
		ID:         uuid.NewString(),
		Address:    ids.Address,
		BIN:        ids.BIN,
		BBL:        ids.BBL,
		Borough:    ids.Borough.DisplayName(),
		Block:      ids.Block,
		Lot:        ids.Lot,
		PostalCode: ids.PostalCode,

		HPDViolationsData:  emptyRows,
		DOBViolationsData:  emptyRows,
		ElevatorData:       emptyRows,
		BoilerData:         emptyRows,
		ElectricalData:     emptyRows,
		OccupancyCertsData: emptyRows,

		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
		DataSources: joinSources(res.Source),
	}

	scores := make(map[model.Category]float64, len(results))
	for cat, outcome := range results {
		scores[cat] = outcome.score
		applyCategory(record, cat, outcome)
	}

	record.HPDScore = score.Round1(categoryScore(scores, model.CategoryHousingViolations))
	record.DOBScore = score.Round1(categoryScore(scores, model.CategoryBuildingViolations))
	record.ElevatorScore = score.Round1(categoryScore(scores, model.CategoryElevatorDevices))
	record.BoilerScore = score.Round1(categoryScore(scores, model.CategoryBoilerDevices))
	record.ElectricalScore = score.Round1(categoryScore(scores, model.CategoryElectricalPermits))
	record.OccupancyScore = score.Round1(categoryScore(scores, model.CategoryOccupancyCertificates))
	record.OverallScore = score.Round1(score.Overall(scores, weights))

	return record
}

// neutralRecord is what an unresolvable address yields: every score
// neutral, every data set empty, provenance marking the failure.
func neutralRecord(address string) *model.ComplianceRecord {
	return &model.ComplianceRecord{
		ID:      uuid.NewString(),
		Address: address,

		HPDScore:        score.Neutral,
		DOBScore:        score.Neutral,
		ElevatorScore:   score.Neutral,
		BoilerScore:     score.Neutral,
		ElectricalScore: score.Neutral,
		OccupancyScore:  score.Neutral,
		OverallScore:    score.Neutral,

		HPDViolationsData:  emptyRows,
		DOBViolationsData:  emptyRows,
		ElevatorData:       emptyRows,
		BoilerData:         emptyRows,
		ElectricalData:     emptyRows,
		OccupancyCertsData: emptyRows,

		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
		DataSources: model.SourceResolutionFailed,
	}
}

func categoryScore(scores map[model.Category]float64, cat model.Category) float64 {
	if s, ok := scores[cat]; ok {
		return s
	}
	return score.Neutral
}

func applyCategory(record *model.ComplianceRecord, cat model.Category, outcome categoryOutcome) {
	data := marshalRows(cat, outcome.result.Rows)
	switch cat {
	case model.CategoryHousingViolations:
		record.HPDViolationsTotal = outcome.total
		record.HPDViolationsActive = outcome.active
		record.HPDViolationsData = data
	case model.CategoryBuildingViolations:
		record.DOBViolationsTotal = outcome.total
		record.DOBViolationsActive = outcome.active
		record.DOBViolationsData = data
	case model.CategoryElevatorDevices:
		record.ElevatorTotal = outcome.total
		record.ElevatorActive = outcome.active
		record.ElevatorData = data
	case model.CategoryBoilerDevices:
		record.BoilerTotal = outcome.total
		record.BoilerActive = outcome.active
		record.BoilerData = data
	case model.CategoryElectricalPermits:
		record.ElectricalTotal = outcome.total
		record.ElectricalActive = outcome.active
		record.ElectricalData = data
	case model.CategoryOccupancyCertificates:
		record.OccupancyCertsTotal = outcome.total
		record.OccupancyCertsActive = outcome.active
		record.OccupancyCertsData = data
	}
}

func marshalRows(cat model.Category, rows []model.Row) string {
	if len(rows) == 0 {
		return emptyRows
	}
	data, err := json.Marshal(rows)
	if err != nil {
		zap.L().Error("aggregate: marshal category rows",
			zap.String("category", string(cat)),
			zap.Error(err),
		)
		return emptyRows
	}
	return string(data)
}
