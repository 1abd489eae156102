package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"spendlog/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	expenses := []core.Expense{
		{ID: 1, Date: "2024-01-05", Category: "Food", Amount: 10.5, Description: "lunch", UserID: 3},
		{ID: 2, Date: "2024-01-20", Category: "Food", Amount: 5, UserID: 3},
		{ID: 3, Date: "2024-02-01", Category: "Travel", Amount: 100, Description: "train, return", UserID: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, expenses))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	// One header row plus one row per expense.
	require.Len(t, records, len(expenses)+1)
	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"1", "2024-01-05", "Food", "10.5", "lunch", "3"}, records[1])
	assert.Equal(t, []string{"2", "2024-01-20", "Food", "5", "", "3"}, records[2])

	// Fields containing commas survive the round trip.
	assert.Equal(t, "train, return", records[3][4])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, CSVHeader, records[0])
}
