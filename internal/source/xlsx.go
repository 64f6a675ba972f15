package source

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/keydrift/internal/compare"
)

// ParseXLSX reads one worksheet of a workbook as a table. The first row is the
// header. Sheet selection follows opts.Sheet, defaulting to the first sheet.
func ParseXLSX(r io.Reader, opts TableOptions) (compare.Table, error) {
	if opts.Limit > 0 {
		r = &limitedReader{r: r, n: opts.Limit}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return compare.Table{}, tableWrap(err)
	}
	if len(data) == 0 {
		return compare.Table{}, tableWrap(ErrEmptyFile)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return compare.Table{}, tableError("open workbook: %v", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return compare.Table{}, tableError("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return compare.Table{}, tableWrap(fmt.Errorf("read sheet %q: %w", sheet, err))
	}
	return buildTable(rows)
}
