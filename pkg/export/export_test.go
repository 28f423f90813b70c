package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"student", "balance"},
		Rows: []map[string]string{
			{"student": "ADM-001", "balance": "100.00"},
			{"student": "=HYPERLINK(\"x\")", "balance": "0.00"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "student,balance\nADM-001,100.00\n\"'=HYPERLINK(\"\"x\"\")\",0.00\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(Document{
		Title:  "Report card",
		Fields: []Field{{Label: "Student", Value: "ADM-001"}},
		Table: Dataset{
			Headers: []string{"Subject", "Marks"},
			Rows:    []map[string]string{{"Subject": "Mathematics", "Marks": "88"}},
		},
		Footer: "Keep it up",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
