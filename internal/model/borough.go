package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Borough is one of the five NYC boroughs, numbered per the city's
// standard borough codes (1 = Manhattan ... 5 = Staten Island).
type Borough int

const (
	BoroughUnknown Borough = iota
	Manhattan
	Bronx
	Brooklyn
	Queens
	StatenIsland
)

var boroughNames = map[Borough]string{
	Manhattan:    "MANHATTAN",
	Bronx:        "BRONX",
	Brooklyn:     "BROOKLYN",
	Queens:       "QUEENS",
	StatenIsland: "STATEN ISLAND",
}

var titleCaser = cases.Title(language.AmericanEnglish)

// Code returns the single-digit borough code used by most city datasets.
func (b Borough) Code() string {
	if b < Manhattan || b > StatenIsland {
		return ""
	}
	return string(rune('0' + b))
}

// Name returns the upper-case borough name ("MANHATTAN", "STATEN ISLAND").
func (b Borough) Name() string {
	return boroughNames[b]
}

// DisplayName returns the title-case borough name ("Staten Island").
func (b Borough) DisplayName() string {
	return titleCaser.String(strings.ToLower(b.Name()))
}

// String implements fmt.Stringer.
func (b Borough) String() string { return b.Name() }

// ParseBorough accepts a borough name in any casing, or a single-digit
// borough code, and returns the matching Borough. Unrecognized input
// returns BoroughUnknown.
func ParseBorough(s string) Borough {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1", "MN", "MANHATTAN", "NEW YORK":
		return Manhattan
	case "2", "BX", "BRONX", "THE BRONX":
		return Bronx
	case "3", "BK", "BROOKLYN":
		return Brooklyn
	case "4", "QN", "QUEENS":
		return Queens
	case "5", "SI", "STATEN ISLAND", "STATEN IS":
		return StatenIsland
	}
	return BoroughUnknown
}
