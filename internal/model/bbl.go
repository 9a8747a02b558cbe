package model

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// A BBL is a ten-digit borough-block-lot tax identifier: one borough
// digit, a five-digit zero-padded block, and a four-digit zero-padded
// lot. It identifies a tax lot, not a structure; the same lot can hold
// several buildings, each with its own BIN.

// ParseBBL splits a ten-digit BBL into borough, block, and lot. Block
// and lot are returned with leading zeros stripped, the form the city
// datasets index on.
func ParseBBL(bbl string) (Borough, string, string, error) {
	bbl = strings.TrimSpace(bbl)
	if len(bbl) != 10 {
		return BoroughUnknown, "", "", eris.Errorf("bbl: expected 10 digits, got %q", bbl)
	}
	for _, r := range bbl {
		if r < '0' || r > '9' {
			return BoroughUnknown, "", "", eris.Errorf("bbl: non-digit in %q", bbl)
		}
	}

	borough := ParseBorough(bbl[:1])
	if borough == BoroughUnknown {
		return BoroughUnknown, "", "", eris.Errorf("bbl: invalid borough digit in %q", bbl)
	}

	block := strings.TrimLeft(bbl[1:6], "0")
	lot := strings.TrimLeft(bbl[6:10], "0")
	return borough, block, lot, nil
}

// FormatBBL reassembles a ten-digit BBL from its parts, re-applying the
// zero padding stripped by ParseBBL.
func FormatBBL(borough Borough, block, lot string) string {
	if borough == BoroughUnknown || block == "" || lot == "" {
		return ""
	}
	return fmt.Sprintf("%s%05s%04s", borough.Code(), block, lot)
}
