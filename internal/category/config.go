package category

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/propply/compliance-engine/internal/model"
)

// specConfig is the YAML form of a Spec override.
type specConfig struct {
	Dataset    string           `yaml:"dataset"`
	Select     string           `yaml:"select"`
	Order      string           `yaml:"order"`
	Limit      int              `yaml:"limit"`
	Kind       ScoreKind        `yaml:"kind"`
	Penalty    float64          `yaml:"penalty"`
	Active     ActiveRule       `yaml:"active"`
	Strategies []strategyConfig `yaml:"strategies"`
}

// strategyConfig declares one strategy row in YAML. The field names
// carried depend on the kind.
type strategyConfig struct {
	Kind         model.StrategyKind `yaml:"kind"`
	Field        string             `yaml:"field,omitempty"`         // by_bin
	BoroughField string             `yaml:"borough_field,omitempty"` // by_block_lot, by_block
	BoroughForm  BoroughForm        `yaml:"borough_form,omitempty"`
	BlockField   string             `yaml:"block_field,omitempty"`
	LotField     string             `yaml:"lot_field,omitempty"`
	HouseField   string             `yaml:"house_field,omitempty"` // by_address
	StreetField  string             `yaml:"street_field,omitempty"`
}

// LoadSpecs reads category overrides from a YAML file and merges them
// over the built-in table. Categories absent from the file keep their
// defaults; an unknown category name is an error.
func LoadSpecs(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "category: read config %s", path)
	}

	var wrapper struct {
		Categories map[model.Category]specConfig `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "category: parse config")
	}

	specs := DefaultSpecs()
	byCategory := make(map[model.Category]int, len(specs))
	for i, s := range specs {
		byCategory[s.Category] = i
	}

	for cat, sc := range wrapper.Categories {
		idx, ok := byCategory[cat]
		if !ok {
			return nil, eris.Errorf("category: unknown category %q in config", cat)
		}
		merged, err := applyOverride(specs[idx], sc)
		if err != nil {
			return nil, eris.Wrapf(err, "category: %s", cat)
		}
		specs[idx] = merged
	}

	return specs, nil
}

func applyOverride(base Spec, sc specConfig) (Spec, error) {
	if sc.Dataset != "" {
		base.Dataset = sc.Dataset
	}
	if sc.Select != "" {
		base.Select = sc.Select
	}
	if sc.Order != "" {
		base.Order = sc.Order
	}
	if sc.Limit > 0 {
		base.Limit = sc.Limit
	}
	if sc.Kind != "" {
		if sc.Kind != KindViolation && sc.Kind != KindEquipment {
			return base, eris.Errorf("invalid kind %q", sc.Kind)
		}
		base.Kind = sc.Kind
	}
	if sc.Penalty > 0 {
		base.Penalty = sc.Penalty
	}
	if sc.Active.Field != "" {
		base.Active = sc.Active
	}
	if len(sc.Strategies) > 0 {
		strategies := make([]Strategy, 0, len(sc.Strategies))
		for _, stc := range sc.Strategies {
			s, err := buildStrategy(stc)
			if err != nil {
				return base, err
			}
			strategies = append(strategies, s)
		}
		base.Strategies = strategies
	}
	return base, nil
}

func buildStrategy(sc strategyConfig) (Strategy, error) {
	form := sc.BoroughForm
	if form == "" {
		form = BoroughAsCode
	}
	switch sc.Kind {
	case model.StrategyByBIN:
		if sc.Field == "" {
			return Strategy{}, eris.New("by_bin strategy requires field")
		}
		return ByBIN(sc.Field), nil
	case model.StrategyByBlockLot:
		if sc.BlockField == "" || sc.LotField == "" {
			return Strategy{}, eris.New("by_block_lot strategy requires block_field and lot_field")
		}
		return ByBlockLot(sc.BoroughField, form, sc.BlockField, sc.LotField), nil
	case model.StrategyByBlock:
		if sc.BoroughField == "" || sc.BlockField == "" {
			return Strategy{}, eris.New("by_block strategy requires borough_field and block_field")
		}
		return ByBlock(sc.BoroughField, form, sc.BlockField), nil
	case model.StrategyByAddress:
		if sc.HouseField == "" || sc.StreetField == "" {
			return Strategy{}, eris.New("by_address strategy requires house_field and street_field")
		}
		return ByAddress(sc.HouseField, sc.StreetField), nil
	default:
		return Strategy{}, eris.Errorf("unknown strategy kind %q", sc.Kind)
	}
}
