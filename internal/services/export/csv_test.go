package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expoprize/prizewheel-go/internal/model"
)

func TestWriteHistoryStartsWithBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, nil))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
}

func TestWriteHistoryHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, nil))

	rows := parseCSV(t, buf.Bytes())
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Name", "Email", "Phone", "Prize", "Spun At"}, rows[0])
}

func TestWriteHistoryRows(t *testing.T) {
	spunAt := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	participants := []*model.Participant{
		{
			Name:      "Alice Conceição",
			Email:     "alice@example.com",
			Phone:     "(11) 98765-4321",
			PrizeName: "Gold hamper",
			SpunAt:    &spunAt,
		},
		{
			Name: "Bob",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, participants))

	rows := parseCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t,
		[]string{"Alice Conceição", "alice@example.com", "(11) 98765-4321", "Gold hamper", "2024-03-15 14:30:00"},
		rows[1])
	assert.Equal(t,
		[]string{"Bob", "N/D", "N/D", "N/A", "Not spun yet"},
		rows[2])
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestHistoryFilename(t *testing.T) {
	assert.Equal(t, "wheel_history_Acme_Corp.csv", HistoryFilename("Acme Corp"))
	assert.Equal(t, "wheel_history_Solo.csv", HistoryFilename("Solo"))
	assert.Equal(t, "wheel_history_A_B.csv", HistoryFilename("A \t B"))
}
