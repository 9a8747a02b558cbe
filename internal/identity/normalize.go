package identity

import (
	"regexp"
	"strings"
)

// Suffixes people append to an address that the registries never index.
var addressSuffixes = []string{
	", NEW YORK, NY",
	", NEW YORK",
	", NY",
	", MANHATTAN",
	", BROOKLYN",
	", QUEENS",
	", BRONX",
	", STATEN ISLAND",
}

var zipRe = regexp.MustCompile(`\b(\d{5})\b`)

// splitAddress breaks a free-text address into the house number, street
// name, and ZIP code the HPD fallback search filters on. Comparison is
// case-folded to upper case, matching how the registries store street
// names.
func splitAddress(address string) (houseNumber, streetName, zip string) {
	clean := strings.ToUpper(strings.TrimSpace(address))
	for _, suffix := range addressSuffixes {
		clean = strings.ReplaceAll(clean, suffix, "")
	}

	if m := zipRe.FindStringSubmatch(clean); m != nil {
		zip = m[1]
		clean = strings.TrimSpace(strings.Replace(clean, zip, "", 1))
	}
	clean = strings.TrimRight(clean, ", ")

	parts := strings.Fields(clean)
	if len(parts) == 0 {
		return "", "", zip
	}
	houseNumber = parts[0]
	streetName = strings.Join(parts[1:], " ")
	return houseNumber, streetName, zip
}
