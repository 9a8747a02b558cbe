// Package category declares each compliance category as a table row —
// dataset, projection, strategy cascade, activity rule, scoring kind —
// and runs the generic first-hit search over those declarations.
// Adding a dataset means adding a Spec, not new control flow.
package category

import (
	"strings"

	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/pkg/socrata"
)

// ScoreKind selects the scoring rule applied to a category's rows.
type ScoreKind string

const (
	// KindViolation scores by penalizing each active violation.
	KindViolation ScoreKind = "violation"
	// KindEquipment scores by the active fraction of devices on file.
	KindEquipment ScoreKind = "equipment"
)

// ActiveRule decides whether a row counts as active. Exactly one of
// the two modes applies: Values non-empty means status equality;
// EmptyField true means active while the field is blank (e.g., a
// violation with no disposition yet).
type ActiveRule struct {
	Field      string   `yaml:"field"`
	Values     []string `yaml:"values,omitempty"`
	EmptyField bool     `yaml:"empty_field,omitempty"`
}

// Matches reports whether the row is active under the rule.
func (r ActiveRule) Matches(row socrata.Row) bool {
	v := socrata.Field(row, r.Field)
	if r.EmptyField {
		return v == ""
	}
	for _, want := range r.Values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// Spec declares one category. Strategies are tried in order; the first
// eligible strategy that yields rows wins.
type Spec struct {
	Category   model.Category
	Dataset    string
	Select     string
	Order      string
	Limit      int
	Kind       ScoreKind
	Penalty    float64 // per active item; violation kind only
	Active     ActiveRule
	Strategies []Strategy
}

// Counts tallies the total and active rows for a result.
func (s Spec) Counts(rows []socrata.Row) (total, active int) {
	total = len(rows)
	for _, row := range rows {
		if s.Active.Matches(row) {
			active++
		}
	}
	return total, active
}
