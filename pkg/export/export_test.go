package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(rows int) Table {
	table := Table{Title: "Students", Columns: []string{"Name", "Enrollment ID", "Program"}}
	for i := 0; i < rows; i++ {
		table.Rows = append(table.Rows, []string{"Asha, K", "ENR1700000000000", "JEE Advanced Two Year Classroom Program"})
	}
	return table
}

func TestCSVRendererQuotesCells(t *testing.T) {
	out, err := NewCSVRenderer().Render(sampleTable(1))
	require.NoError(t, err)
	assert.Equal(t, "Name,Enrollment ID,Program\n\"Asha, K\",ENR1700000000000,JEE Advanced Two Year Classroom Program\n", string(out))
}

func TestRenderersRejectRaggedRows(t *testing.T) {
	table := Table{Columns: []string{"a", "b"}, Rows: [][]string{{"1"}}}
	_, err := NewCSVRenderer().Render(table)
	assert.Error(t, err)
	_, err = NewPDFRenderer().Render(table)
	assert.Error(t, err)
	_, err = NewCSVRenderer().Render(Table{})
	assert.Error(t, err)
}

func TestPDFRendererPaginates(t *testing.T) {
	out, err := NewPDFRenderer().Render(sampleTable(80))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.GreaterOrEqual(t, strings.Count(string(out), "/Type /Page\n"), 3)
}

func TestRendererFor(t *testing.T) {
	csvRenderer, err := RendererFor("csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", csvRenderer.ContentType())

	pdfRenderer, err := RendererFor("pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf", pdfRenderer.Extension())

	_, err = RendererFor("xlsx")
	assert.Error(t, err)
}
