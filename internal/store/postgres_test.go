package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propply/compliance-engine/internal/model"
)

func sampleRecord() *model.ComplianceRecord {
	return &model.ComplianceRecord{
		ID:           "rec-1",
		Address:      "140 WEST 28 STREET",
		BIN:          "1015283",
		BBL:          "1008030001",
		OverallScore: 87.5,
		DataSources:  model.SourceOpenData,
	}
}

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func TestPostgresSaveRecord(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	record := sampleRecord()

	mock.ExpectExec("INSERT INTO compliance_records").
		WithArgs(record.ID, record.Address, record.BIN, record.BBL,
			record.OverallScore, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveRecord(context.Background(), record))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRecord(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	record := sampleRecord()
	recordJSON, err := json.Marshal(record)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT record FROM compliance_records WHERE id").
		WithArgs(record.ID).
		WillReturnRows(pgxmock.NewRows([]string{"record"}).AddRow(recordJSON))

	got, err := s.GetRecord(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Address, got.Address)
	assert.Equal(t, record.OverallScore, got.OverallScore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRecord_NotFound(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT record FROM compliance_records WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"record"}))

	_, err := s.GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestPostgresListRecords_FilterByBIN(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	record := sampleRecord()
	recordJSON, err := json.Marshal(record)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT record FROM compliance_records WHERE true AND bin").
		WithArgs(record.BIN, 100).
		WillReturnRows(pgxmock.NewRows([]string{"record"}).AddRow(recordJSON))

	records, err := s.ListRecords(context.Background(), RecordFilter{BIN: record.BIN})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS compliance_records").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
