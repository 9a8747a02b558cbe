package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propply/compliance-engine/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteSaveAndGet(t *testing.T) {
	t.Parallel()

	s := newTestSQLite(t)
	ctx := context.Background()

	record := &model.ComplianceRecord{
		ID:           "rec-sqlite-1",
		Address:      "350 5 AVENUE",
		BIN:          "1015862",
		BBL:          "1008350041",
		OverallScore: 92.5,
		HPDScore:     100,
		DataSources:  model.SourceOpenData,
	}
	require.NoError(t, s.SaveRecord(ctx, record))

	got, err := s.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Address, got.Address)
	assert.Equal(t, record.OverallScore, got.OverallScore)
	assert.Equal(t, record.HPDScore, got.HPDScore)
}

func TestSQLiteSaveRecord_Upsert(t *testing.T) {
	t.Parallel()

	s := newTestSQLite(t)
	ctx := context.Background()

	record := &model.ComplianceRecord{ID: "rec-up", Address: "1 MAIN ST", OverallScore: 50}
	require.NoError(t, s.SaveRecord(ctx, record))

	record.OverallScore = 75
	require.NoError(t, s.SaveRecord(ctx, record))

	got, err := s.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.OverallScore)
}

func TestSQLiteGetRecord_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestSQLite(t)
	_, err := s.GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestSQLiteListRecords(t *testing.T) {
	t.Parallel()

	s := newTestSQLite(t)
	ctx := context.Background()

	for _, r := range []*model.ComplianceRecord{
		{ID: "a", Address: "1 FIRST AVE", BIN: "1000001", OverallScore: 80},
		{ID: "b", Address: "2 SECOND AVE", BIN: "1000002", OverallScore: 90},
		{ID: "c", Address: "1 FIRST AVE", BIN: "1000001", OverallScore: 85},
	} {
		require.NoError(t, s.SaveRecord(ctx, r))
	}

	all, err := s.ListRecords(ctx, RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byBIN, err := s.ListRecords(ctx, RecordFilter{BIN: "1000001"})
	require.NoError(t, err)
	assert.Len(t, byBIN, 2)

	limited, err := s.ListRecords(ctx, RecordFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
