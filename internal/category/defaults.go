package category

import (
	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/pkg/socrata"
)

// DefaultSpecs returns the built-in category table. Field names track
// each dataset's actual schema; they are deliberately not unified.
//
// The boiler dataset is a known fixed limitation: it carries no address
// or parcel columns at all, so its cascade is BIN-only. Querying it by
// address would 400 or silently match nothing.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Category: model.CategoryHousingViolations,
			Dataset:  socrata.DatasetHPDViolations,
			Select:   "violationid, violationstatus, currentstatus, approveddate, novdescription, rentimpairing, buildingid",
			Order:    "approveddate DESC",
			Limit:    1000,
			Kind:     KindViolation,
			Penalty:  10,
			Active:   ActiveRule{Field: "violationstatus", Values: []string{"Open", "ACTIVE"}},
			Strategies: []Strategy{
				ByBIN("buildingid"),
				ByBlockLot("boroid", BoroughAsCode, "block", "lot"),
				ByAddress("housenumber", "streetname"),
			},
		},
		{
			Category: model.CategoryBuildingViolations,
			Dataset:  socrata.DatasetDOBViolations,
			Select:   "isn_dob_bis_viol, violation_category, violation_type, issue_date, disposition_comments, description, bin",
			Order:    "issue_date DESC",
			Limit:    1000,
			Kind:     KindViolation,
			Penalty:  15,
			Active:   ActiveRule{Field: "disposition_comments", EmptyField: true},
			Strategies: []Strategy{
				ByBIN("bin"),
				ByBlockLot("boro", BoroughAsCode, "block", "lot"),
				ByAddress("house_number", "street"),
			},
		},
		{
			Category: model.CategoryElevatorDevices,
			Dataset:  socrata.DatasetElevatorInspections,
			Select:   "device_number, device_type, device_status, status_date, bin, house_number, street_name",
			Order:    "status_date DESC",
			Limit:    100,
			Kind:     KindEquipment,
			Active:   ActiveRule{Field: "device_status", Values: []string{"Active"}},
			Strategies: []Strategy{
				ByBIN("bin"),
				ByBlockLot("", BoroughAsCode, "block", "lot"),
				ByAddress("house_number", "street_name"),
			},
		},
		{
			Category: model.CategoryBoilerDevices,
			Dataset:  socrata.DatasetBoilerInspections,
			Select:   "tracking_number, boiler_id, inspection_date, defects_exist, report_status, bin_number, boiler_make, pressure_type, report_type",
			Order:    "inspection_date DESC",
			Limit:    100,
			Kind:     KindEquipment,
			Active:   ActiveRule{Field: "report_status", Values: []string{"Accepted"}},
			Strategies: []Strategy{
				ByBIN("bin_number"),
			},
		},
		{
			Category: model.CategoryElectricalPermits,
			Dataset:  socrata.DatasetElectricalPermits,
			Select:   "filing_number, filing_date, filing_status, job_description, completion_date, bin",
			Order:    "filing_date DESC",
			Limit:    100,
			Kind:     KindEquipment,
			Active:   ActiveRule{Field: "filing_status", Values: []string{"Approved", "Job in Process", "Active", "Permit Issued"}},
			Strategies: []Strategy{
				ByBIN("bin"),
				ByBlock("borough", BoroughAsName, "block"),
			},
		},
		{
			Category: model.CategoryOccupancyCertificates,
			Dataset:  socrata.DatasetCertificateOfOccupancy,
			Select:   "bin, c_of_o_filing_type, c_of_o_status, c_of_o_issuance_date, job_type, block, lot, house_no, street_name",
			Order:    "c_of_o_issuance_date DESC",
			Limit:    50,
			Kind:     KindEquipment,
			Active:   ActiveRule{Field: "c_of_o_status", Values: []string{"Issued", "Active", "Current"}},
			Strategies: []Strategy{
				ByBIN("bin"),
				ByBlockLot("", BoroughAsCode, "block", "lot"),
			},
		},
	}
}
