package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/propply/compliance-engine/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS compliance_records (
	id            TEXT PRIMARY KEY,
	address       TEXT NOT NULL,
	bin           TEXT,
	bbl           TEXT,
	overall_score REAL NOT NULL,
	record        TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_compliance_records_bin ON compliance_records(bin);
CREATE INDEX IF NOT EXISTS idx_compliance_records_bbl ON compliance_records(bbl);
CREATE INDEX IF NOT EXISTS idx_compliance_records_created_at ON compliance_records(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRecord(ctx context.Context, record *model.ComplianceRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal record")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO compliance_records (id, address, bin, bbl, overall_score, record, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   address = excluded.address, bin = excluded.bin, bbl = excluded.bbl,
		   overall_score = excluded.overall_score, record = excluded.record`,
		record.ID, record.Address, record.BIN, record.BBL,
		record.OverallScore, string(recordJSON), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save record %s", record.ID)
}

func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*model.ComplianceRecord, error) {
	var recordJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM compliance_records WHERE id = ?`,
		id,
	).Scan(&recordJSON)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get record %s", id)
	}

	var record model.ComplianceRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal record")
	}
	return &record, nil
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.ComplianceRecord, error) {
	query := `SELECT record FROM compliance_records WHERE 1=1`
	var args []any

	if filter.BIN != "" {
		query += ` AND bin = ?`
		args = append(args, filter.BIN)
	}
	if filter.BBL != "" {
		query += ` AND bbl = ?`
		args = append(args, filter.BBL)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var records []model.ComplianceRecord
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		var record model.ComplianceRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal record")
		}
		records = append(records, record)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}
