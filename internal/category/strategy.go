package category

import (
	"fmt"
	"strings"

	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/pkg/socrata"
)

// Strategy is one concrete way of querying a dataset: a predicate over
// the identifier set plus a filter builder. The same physical concept
// (a building id, a block) is named differently in every dataset, so
// each strategy carries its dataset's field names instead of the
// searcher branching per dataset.
type Strategy struct {
	Kind     model.StrategyKind
	Eligible func(ids model.IdentifierSet) bool
	Build    func(ids model.IdentifierSet) string
}

// BoroughForm selects how a block/lot strategy encodes the borough.
type BoroughForm string

const (
	// BoroughAsCode uses the single-digit borough code ("1".."5").
	BoroughAsCode BoroughForm = "code"
	// BoroughAsName uses the upper-case borough name ("MANHATTAN").
	BoroughAsName BoroughForm = "name"
)

// ByBIN filters on the dataset's building-id column.
func ByBIN(field string) Strategy {
	return Strategy{
		Kind:     model.StrategyByBIN,
		Eligible: func(ids model.IdentifierSet) bool { return ids.BIN != "" },
		Build: func(ids model.IdentifierSet) string {
			return fmt.Sprintf("%s = '%s'", field, socrata.Quote(ids.BIN))
		},
	}
}

// ByBlockLot filters on borough, block, and lot. Pass an empty
// boroughField for datasets that index block/lot without a borough
// column.
func ByBlockLot(boroughField string, form BoroughForm, blockField, lotField string) Strategy {
	return Strategy{
		Kind: model.StrategyByBlockLot,
		Eligible: func(ids model.IdentifierSet) bool {
			if !ids.HasBlockLot() {
				return false
			}
			return boroughField == "" || ids.Borough != model.BoroughUnknown
		},
		Build: func(ids model.IdentifierSet) string {
			clauses := make([]string, 0, 3)
			if boroughField != "" {
				clauses = append(clauses, fmt.Sprintf("%s = '%s'", boroughField, boroughValue(ids.Borough, form)))
			}
			clauses = append(clauses,
				fmt.Sprintf("%s = '%s'", blockField, socrata.Quote(ids.Block)),
				fmt.Sprintf("%s = '%s'", lotField, socrata.Quote(ids.Lot)),
			)
			return strings.Join(clauses, " AND ")
		},
	}
}

// ByBlock filters on borough and block only, for datasets without a
// lot column.
func ByBlock(boroughField string, form BoroughForm, blockField string) Strategy {
	return Strategy{
		Kind: model.StrategyByBlock,
		Eligible: func(ids model.IdentifierSet) bool {
			return ids.Borough != model.BoroughUnknown && ids.Block != ""
		},
		Build: func(ids model.IdentifierSet) string {
			return fmt.Sprintf("%s = '%s' AND %s = '%s'",
				boroughField, boroughValue(ids.Borough, form),
				blockField, socrata.Quote(ids.Block))
		},
	}
}

// ByAddress filters on exact house number plus partial street name.
func ByAddress(houseField, streetField string) Strategy {
	return Strategy{
		Kind: model.StrategyByAddress,
		Eligible: func(ids model.IdentifierSet) bool {
			_, street := splitHouseStreet(ids.Address)
			return street != ""
		},
		Build: func(ids model.IdentifierSet) string {
			house, street := splitHouseStreet(ids.Address)
			return fmt.Sprintf("%s = '%s' AND upper(%s) LIKE '%%%s%%'",
				houseField, socrata.Quote(house),
				streetField, socrata.Quote(strings.ToUpper(street)))
		},
	}
}

func boroughValue(b model.Borough, form BoroughForm) string {
	if form == BoroughAsName {
		return b.Name()
	}
	return b.Code()
}

func splitHouseStreet(address string) (house, street string) {
	parts := strings.Fields(strings.TrimSpace(address))
	if len(parts) < 2 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
