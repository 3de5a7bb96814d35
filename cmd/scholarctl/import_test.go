package main

import (
	"bytes"
	"testing"

	"ScholarsBox/internal/scholarship"

	"github.com/stretchr/testify/assert"
)

func TestPrintImportResult(t *testing.T) {
	t.Run("with rejects", func(t *testing.T) {
		var buf bytes.Buffer
		printImportResult(&buf, &scholarship.ImportResult{
			ParsedRows:    4,
			InsertedCount: 2,
			UpdatedCount:  1,
			InvalidRecords: []scholarship.InvalidRecord{
				{Row: 5, Record: map[string]string{"Email": "bad@example", "Name": "Ravi"}, Error: "invalid email format"},
			},
		})

		out := buf.String()
		for _, want := range []string{"PARSED", "INSERTED", "UPDATED", "INVALID", "1 row(s) rejected:", "LINE", "bad@example", "invalid email format"} {
			assert.Contains(t, out, want)
		}
		assert.Regexp(t, `\|\s+4\s+\|\s+2\s+\|\s+1\s+\|\s+1\s+\|`, out)
		assert.Regexp(t, `\|\s+5\s+\|\s+bad@example\s+\|`, out)
		assert.NotContains(t, out, "All rows imported.")
	})

	t.Run("clean import", func(t *testing.T) {
		var buf bytes.Buffer
		printImportResult(&buf, &scholarship.ImportResult{ParsedRows: 3, InsertedCount: 3})

		out := buf.String()
		assert.Contains(t, out, "All rows imported.")
		assert.NotContains(t, out, "rejected")
	})
}

func TestCellIgnoresHeaderCase(t *testing.T) {
	record := map[string]string{" EMAIL ": "a@example.com", "Name": "Asha"}
	assert.Equal(t, "a@example.com", cell(record, "email"))
	assert.Empty(t, cell(record, "state"))
}
