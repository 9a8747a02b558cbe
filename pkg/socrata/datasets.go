package socrata

// Logical dataset names used across the engine. Keeping callers on
// logical names means a dataset migration is a table edit here, not a
// sweep through the search code.
const (
	DatasetHPDViolations          = "hpd_violations"
	DatasetDOBViolations          = "dob_violations"
	DatasetElevatorInspections    = "elevator_inspections"
	DatasetBoilerInspections      = "boiler_inspections"
	DatasetElectricalPermits      = "electrical_permits"
	DatasetCertificateOfOccupancy = "certificate_of_occupancy"
	DatasetHPDRegistrations       = "hpd_registrations"
)

// defaultDatasets maps logical names to NYC Open Data dataset IDs.
func defaultDatasets() map[string]string {
	return map[string]string{
		DatasetHPDViolations:          "wvxf-dwi5", // HPD Housing Maintenance Code Violations
		DatasetDOBViolations:          "3h2n-5cm9", // DOB Violations
		DatasetElevatorInspections:    "e5aq-a4j2", // DOB NOW Elevator Compliance
		DatasetBoilerInspections:      "52dp-yji6", // DOB NOW Safety Boiler
		DatasetElectricalPermits:      "dm9a-ab7w", // DOB NOW Electrical Permit Applications
		DatasetCertificateOfOccupancy: "bs8b-p36w", // DOB NOW Certificate of Occupancy
		DatasetHPDRegistrations:       "hv8p-yzbx", // HPD Registrations
	}
}
