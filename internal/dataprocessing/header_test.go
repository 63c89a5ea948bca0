package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetcheck/pkg/contracts/domain"
)

func TestNormalizeHeader(t *testing.T) {
	for _, in := range []string{"Time Spent", "Time  Spent", " Time\tSpent ", "Time\nSpent", "Time  Spent"} {
		assert.Equal(t, "Time Spent", NormalizeHeader(in), "input %q", in)
	}
	assert.Equal(t, "", NormalizeHeader("   "))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "Time Spent", NormalizeKey("Time   Spent"))
	assert.Equal(t, 42, NormalizeKey(42))
	assert.Nil(t, NormalizeKey(nil))
}

func TestNormalizeRow(t *testing.T) {
	row := domain.RawRow{"  Developer ": "Ana", "Time\tSpent": "1h"}

	got := NormalizeRow(row)

	assert.Equal(t, domain.RawRow{"Developer": "Ana", "Time Spent": "1h"}, got)
	assert.Contains(t, row, "  Developer ", "input row must not change")
}

func TestHeaderKeys(t *testing.T) {
	keys := headerKeys([]any{"Date", " Time  Spent ", "", "Date", "", nil})

	assert.Equal(t, []string{"Date", "Time Spent", "__EMPTY", "Date_1", "__EMPTY_1", "__EMPTY_2"}, keys)
}

func TestMissingAndFoundColumns(t *testing.T) {
	keys := []string{"Developer", "__EMPTY", "Date", "Task", "Notes"}

	assert.Equal(t, []string{"Ticket", "Status", "Productive", "Time Spent"}, missingColumns(keys))
	assert.Equal(t, []string{"Developer", "Date", "Task", "Notes"}, foundColumns(keys))
	assert.Empty(t, missingColumns(domain.RequiredColumns))
}
