package model

// Row is one loosely-typed record returned by a registry dataset.
type Row = map[string]any

// Category is one compliance domain backed by a single city dataset.
type Category string

const (
	CategoryHousingViolations     Category = "housing_violations"
	CategoryBuildingViolations    Category = "building_violations"
	CategoryElevatorDevices       Category = "elevator_devices"
	CategoryBoilerDevices         Category = "boiler_devices"
	CategoryElectricalPermits     Category = "electrical_permits"
	CategoryOccupancyCertificates Category = "occupancy_certificates"
)

// AllCategories lists every category in record-assembly order.
var AllCategories = []Category{
	CategoryHousingViolations,
	CategoryBuildingViolations,
	CategoryElevatorDevices,
	CategoryBoilerDevices,
	CategoryElectricalPermits,
	CategoryOccupancyCertificates,
}

// StrategyKind names one way of filtering a dataset.
type StrategyKind string

const (
	StrategyByBIN      StrategyKind = "by_bin"
	StrategyByBlockLot StrategyKind = "by_block_lot"
	StrategyByBlock    StrategyKind = "by_block"
	StrategyByAddress  StrategyKind = "by_address"
)

// CategoryResult is the raw outcome of searching one category.
// StrategyUsed is empty when every eligible strategy came back empty;
// that is a valid terminal state, not an error.
type CategoryResult struct {
	Category     Category     `json:"category"`
	StrategyUsed StrategyKind `json:"strategy_used,omitempty"`
	Rows         []Row        `json:"rows"`
	RowCount     int          `json:"row_count"`
}

// Empty reports whether the search produced no rows.
func (r CategoryResult) Empty() bool { return r.RowCount == 0 }
