package internal

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// WriteDataSheet replaces the contents of a hidden raw-data sheet with
// the table: headers in row 1, data from row 2. The sheet is created
// when absent and always ends up hidden. Numeric-looking strings are
// stored as numbers so report formulas can aggregate them.
func WriteDataSheet(f *excelize.File, sheet string, t Table) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("looking up sheet %s: %w", sheet, err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
	} else if err := clearSheetRows(f, sheet); err != nil {
		return fmt.Errorf("clearing sheet %s: %w", sheet, err)
	}

	for j, h := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for i, row := range t.Rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, typedValue(v)); err != nil {
				return err
			}
		}
	}

	if err := f.SetSheetVisible(sheet, false); err != nil {
		return fmt.Errorf("hiding sheet %s: %w", sheet, err)
	}
	return nil
}

func clearSheetRows(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	for i := len(rows); i >= 1; i-- {
		if err := f.RemoveRow(sheet, i); err != nil {
			return err
		}
	}
	return nil
}

// typedValue turns a CSV field into the value to store: int64 for
// integers, float64 for decimals, otherwise the original string.
func typedValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// DataRowCount counts contiguous data rows of a data sheet: rows from
// 2 onward whose first column is non-empty.
func DataRowCount(f *excelize.File, sheet string) int {
	if !sheetExists(f, sheet) {
		return 0
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0
	}
	n := 0
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) == 0 || rows[i][0] == "" {
			break
		}
		n++
	}
	return n
}

// ReadDataTable reads a data sheet back into a Table. Like
// DataRowCount it stops at the first row with an empty first column.
func ReadDataTable(f *excelize.File, sheet string) (Table, bool) {
	if !sheetExists(f, sheet) {
		return Table{}, false
	}
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) == 0 {
		return Table{}, false
	}
	t := Table{Headers: rows[0]}
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) == 0 || rows[i][0] == "" {
			break
		}
		t.Rows = append(t.Rows, rows[i])
	}
	return t, true
}
