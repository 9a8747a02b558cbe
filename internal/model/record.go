package model

// ComplianceRecord is the flat, serialization-ready aggregate handed to
// downstream consumers (API response, store row, webhook payload). It
// is assembled once per request and never mutated afterwards.
//
// Scores are carried rounded to one decimal place; all intermediate
// arithmetic happens upstream in full float precision.
type ComplianceRecord struct {
	ID string `json:"id"`

	// Property identifiers.
	Address    string `json:"address"`
	BIN        string `json:"bin,omitempty"`
	BBL        string `json:"bbl,omitempty"`
	Borough    string `json:"borough,omitempty"`
	Block      string `json:"block,omitempty"`
	Lot        string `json:"lot,omitempty"`
	PostalCode string `json:"zip_code,omitempty"`

	// Per-category counts.
	HPDViolationsTotal   int `json:"hpd_violations_total"`
	HPDViolationsActive  int `json:"hpd_violations_active"`
	DOBViolationsTotal   int `json:"dob_violations_total"`
	DOBViolationsActive  int `json:"dob_violations_active"`
	ElevatorTotal        int `json:"elevator_devices_total"`
	ElevatorActive       int `json:"elevator_devices_active"`
	BoilerTotal          int `json:"boiler_devices_total"`
	BoilerActive         int `json:"boiler_devices_active"`
	ElectricalTotal      int `json:"electrical_permits_total"`
	ElectricalActive     int `json:"electrical_permits_active"`
	OccupancyCertsTotal  int `json:"occupancy_certificates_total"`
	OccupancyCertsActive int `json:"occupancy_certificates_active"`

	// Compliance scores, 0-100.
	HPDScore        float64 `json:"hpd_compliance_score"`
	DOBScore        float64 `json:"dob_compliance_score"`
	ElevatorScore   float64 `json:"elevator_compliance_score"`
	BoilerScore     float64 `json:"boiler_compliance_score"`
	ElectricalScore float64 `json:"electrical_compliance_score"`
	OccupancyScore  float64 `json:"occupancy_compliance_score"`
	OverallScore    float64 `json:"overall_compliance_score"`

	// Raw rows per category, serialized as embeddable JSON arrays.
	HPDViolationsData  string `json:"hpd_violations_data"`
	DOBViolationsData  string `json:"dob_violations_data"`
	ElevatorData       string `json:"elevator_data"`
	BoilerData         string `json:"boiler_data"`
	ElectricalData     string `json:"electrical_data"`
	OccupancyCertsData string `json:"occupancy_certificates_data"`

	// Metadata.
	ProcessedAt string `json:"processed_at"`
	DataSources string `json:"data_sources"`
}

// Provenance markers recorded in DataSources.
const (
	SourceOpenData         = "nyc_open_data"
	SourceGeoSearch        = "nyc_planning_geosearch"
	SourceHPDFallback      = "hpd_address_fallback"
	SourceResolutionFailed = "resolution_failed"
)
