// Package identity turns a free-text property address into the
// canonical identifier set the registry searches key on. The primary
// path is the GeoSearch geocoder; when it misses, the HPD violations
// dataset doubles as an address directory because it indexes nearly
// every residential parcel in the city.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/pkg/geosearch"
	"github.com/propply/compliance-engine/pkg/socrata"
)

// ErrNotFound means no identifiers could be resolved for the address.
// Callers degrade to an empty record rather than propagating this.
var ErrNotFound = eris.New("identity: property not found")

// Resolution is a resolved identifier set plus the source that won.
type Resolution struct {
	Identifiers model.IdentifierSet
	Source      string
}

// Resolver resolves addresses against the geocoder and the registries.
type Resolver struct {
	geo      geosearch.Client
	registry socrata.Client
}

// NewResolver creates a Resolver.
func NewResolver(geo geosearch.Client, registry socrata.Client) *Resolver {
	return &Resolver{geo: geo, registry: registry}
}

// Resolve turns an address (plus optional borough hint) into an
// IdentifierSet. The set is immutable once returned; it may carry only
// one of BIN or block/lot, and downstream searches must tolerate that.
func (r *Resolver) Resolve(ctx context.Context, address, boroughHint string) (*Resolution, error) {
	text := strings.TrimSpace(address)
	if text == "" {
		return nil, ErrNotFound
	}
	if boroughHint != "" {
		text = text + ", " + strings.TrimSpace(boroughHint)
	}

	if res, err := r.resolveGeoSearch(ctx, text); err != nil {
		zap.L().Warn("identity: geosearch lookup failed, trying fallback",
			zap.String("address", address),
			zap.Error(err),
		)
	} else if res != nil {
		return res, nil
	}

	res, err := r.resolveHPDFallback(ctx, address)
	if err != nil {
		zap.L().Warn("identity: hpd fallback failed",
			zap.String("address", address),
			zap.Error(err),
		)
		return nil, ErrNotFound
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

// resolveGeoSearch runs the primary lookup. A nil, nil return means the
// geocoder answered but had no match.
func (r *Resolver) resolveGeoSearch(ctx context.Context, text string) (*Resolution, error) {
	match, err := r.geo.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	if !match.Matched {
		return nil, nil
	}

	ids := model.IdentifierSet{
		Address:    strings.ToUpper(match.Address()),
		BIN:        match.BIN,
		BBL:        match.BBL,
		Borough:    model.ParseBorough(match.Borough),
		PostalCode: match.PostalCode,
	}

	if match.BBL != "" {
		borough, block, lot, err := model.ParseBBL(match.BBL)
		if err != nil {
			zap.L().Debug("identity: unparseable bbl from geosearch",
				zap.String("bbl", match.BBL),
				zap.Error(err),
			)
		} else {
			ids.Block = block
			ids.Lot = lot
			if ids.Borough == model.BoroughUnknown {
				ids.Borough = borough
			}
		}
	}

	return &Resolution{Identifiers: ids, Source: model.SourceGeoSearch}, nil
}

// resolveHPDFallback infers identifiers from the HPD violations
// registry by exact house number and partial street name.
func (r *Resolver) resolveHPDFallback(ctx context.Context, address string) (*Resolution, error) {
	houseNumber, streetName, zip := splitAddress(address)
	if houseNumber == "" || streetName == "" {
		return nil, nil
	}

	where := fmt.Sprintf("housenumber = '%s' AND upper(streetname) LIKE '%%%s%%'",
		socrata.Quote(houseNumber), socrata.Quote(streetName))
	if zip != "" {
		where += fmt.Sprintf(" AND zip = '%s'", zip)
	}

	rows, err := r.registry.Get(ctx, socrata.DatasetHPDViolations, socrata.Query{
		Where:  where,
		Select: "buildingid, housenumber, streetname, boro, boroid, block, lot, zip",
		Limit:  1,
	})
	if err != nil {
		return nil, eris.Wrap(err, "identity: hpd fallback query")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	hit := rows[0]
	borough := model.ParseBorough(socrata.Field(hit, "boro"))
	if borough == model.BoroughUnknown {
		borough = model.ParseBorough(socrata.Field(hit, "boroid"))
	}

	ids := model.IdentifierSet{
		Address:    strings.TrimSpace(socrata.Field(hit, "housenumber") + " " + socrata.Field(hit, "streetname")),
		BIN:        socrata.Field(hit, "buildingid"),
		Borough:    borough,
		Block:      socrata.Field(hit, "block"),
		Lot:        socrata.Field(hit, "lot"),
		PostalCode: socrata.Field(hit, "zip"),
	}
	ids.BBL = model.FormatBBL(borough, ids.Block, ids.Lot)

	return &Resolution{Identifiers: ids, Source: model.SourceHPDFallback}, nil
}
