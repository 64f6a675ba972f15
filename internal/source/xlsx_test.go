package source

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/keydrift/internal/compare"
)

func workbook(t *testing.T, sheets map[string][][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseXLSX(t *testing.T) {
	buf := workbook(t, map[string][][]any{
		"Translations": {
			{"SPA.key", "Brand", "en", "fr"},
			{"a", "x", "hi", ""},
			{},
			{"b", "x", "", "bonjour"},
		},
	})

	table, err := ParseTable("export.xlsx", buf, TableOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"SPA.key", "Brand", "en", "fr"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "hi", table.Rows[0]["en"])
	assert.Equal(t, "bonjour", table.Rows[1]["fr"])
	assert.Equal(t, "", table.Rows[1].Get("en"))
}

func TestParseXLSX_NamedSheet(t *testing.T) {
	buf := workbook(t, map[string][][]any{
		"Main": {{"key", "en"}, {"a", "x"}},
	})
	data := buf.Bytes()

	table, err := ParseXLSX(bytes.NewReader(data), TableOptions{Sheet: "Main"})
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = ParseXLSX(bytes.NewReader(data), TableOptions{Sheet: "Nope"})
	assert.ErrorIs(t, err, compare.ErrMalformedTableSource)
}

func TestParseXLSX_NotAWorkbook(t *testing.T) {
	_, err := ParseXLSX(strings.NewReader("key,en\na,x\n"), TableOptions{})
	assert.ErrorIs(t, err, compare.ErrMalformedTableSource)

	_, err = ParseXLSX(strings.NewReader(""), TableOptions{})
	assert.ErrorIs(t, err, compare.ErrMalformedTableSource)
}
