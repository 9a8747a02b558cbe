package socrata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestField(t *testing.T) {
	t.Parallel()

	row := Row{
		"status":  " Open ",
		"count":   float64(12),
		"ratio":   0.5,
		"flag":    true,
		"missing": nil,
	}

	assert.Equal(t, "Open", Field(row, "status"))
	assert.Equal(t, "12", Field(row, "count"))
	assert.Equal(t, "0.5", Field(row, "ratio"))
	assert.Equal(t, "true", Field(row, "flag"))
	assert.Empty(t, Field(row, "missing"))
	assert.Empty(t, Field(row, "absent"))
}

func TestQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "O''BRIEN''S WAY", Quote("O'BRIEN'S WAY"))
	assert.Equal(t, "PARK AVENUE", Quote("PARK AVENUE"))
	assert.Empty(t, Quote(""))
}
