// Package store persists assembled compliance records. Two backends
// exist: Postgres for the serve path and SQLite for local one-shot use.
// The record body is stored as a JSON document with the identifiers and
// the overall score broken out into indexed columns for lookup.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/propply/compliance-engine/internal/model"
)

// ErrRecordNotFound is returned when no record matches the given ID.
var ErrRecordNotFound = eris.New("store: record not found")

// RecordFilter specifies criteria for listing records.
type RecordFilter struct {
	BIN    string `json:"bin,omitempty"`
	BBL    string `json:"bbl,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for compliance records.
type Store interface {
	SaveRecord(ctx context.Context, record *model.ComplianceRecord) error
	GetRecord(ctx context.Context, id string) (*model.ComplianceRecord, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.ComplianceRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}
