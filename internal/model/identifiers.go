package model

// IdentifierSet holds the canonical identifiers resolved for one
// property. BIN and borough/block/lot are independent coordinate
// systems for the same physical building; either side may be missing,
// and downstream searches must tolerate partial sets.
type IdentifierSet struct {
	Address    string  `json:"address"`
	BIN        string  `json:"bin,omitempty"`
	BBL        string  `json:"bbl,omitempty"`
	Borough    Borough `json:"borough,omitempty"`
	Block      string  `json:"block,omitempty"`
	Lot        string  `json:"lot,omitempty"`
	PostalCode string  `json:"postal_code,omitempty"`
}

// HasBlockLot reports whether the set carries a usable block/lot pair.
func (s IdentifierSet) HasBlockLot() bool {
	return s.Block != "" && s.Lot != ""
}

// Empty reports whether no registry identifiers were resolved at all.
func (s IdentifierSet) Empty() bool {
	return s.BIN == "" && s.BBL == "" && !s.HasBlockLot()
}
