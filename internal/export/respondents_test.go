package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/godilite/survey-stats/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readRows(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{RespondentSheet}, f.GetSheetList())
	rows, err := f.GetRows(RespondentSheet)
	require.NoError(t, err)
	return rows
}

func TestWriteRespondentTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRespondentTable(&buf, []service.RespondentRow{
		{Respondent: "anonym", AverageRating: 5.5, Timestamp: "2025-01-01 10:00:00"},
		{Respondent: "alice", AverageRating: 3, Timestamp: "2025-01-02 11:30:00"},
	})
	require.NoError(t, err)

	rows := readRows(t, &buf)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Respondent", "Average rating", "Timestamp"}, rows[0])
	assert.Equal(t, []string{"anonym", "5.5", "2025-01-01 10:00:00"}, rows[1])
	assert.Equal(t, []string{"alice", "3", "2025-01-02 11:30:00"}, rows[2])
}

func TestWriteRespondentTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRespondentTable(&buf, nil))

	rows := readRows(t, &buf)

	require.Len(t, rows, 1)
	assert.Equal(t, "Respondent", rows[0][0])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteRespondentTable_WriterError(t *testing.T) {
	err := WriteRespondentTable(failingWriter{}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
