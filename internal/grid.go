package internal

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Search windows for label scans. Labels sit near the top of a sheet,
// so the upsert scan stays small; the read-only neighbor lookup covers
// a larger area.
const (
	upsertSearchRows = 10
	upsertSearchCols = 30
	lookupSearchRows = 60
	lookupSearchCols = 30
)

// mergeAnchor returns the top-left cell of the merged range containing
// cell, or cell itself when it is not merged. Writes into a merged
// range only take effect on its anchor.
func mergeAnchor(f *excelize.File, sheet, cell string) (string, error) {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return cell, err
	}
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return cell, err
	}
	for _, m := range merges {
		c1, r1, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		c2, r2, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			continue
		}
		if c2 < c1 {
			c1, c2 = c2, c1
		}
		if r2 < r1 {
			r1, r2 = r2, r1
		}
		if row >= r1 && row <= r2 && col >= c1 && col <= c2 {
			return excelize.CoordinatesToCellName(c1, r1)
		}
	}
	return cell, nil
}

// setAnchored writes a value to the merge anchor of cell. Passing nil
// clears the cell. Any formula on the target is dropped first, since
// SetCellValue alone leaves an existing formula in place.
func setAnchored(f *excelize.File, sheet, cell string, v any) error {
	anchor, err := mergeAnchor(f, sheet, cell)
	if err != nil {
		return err
	}
	if err := f.SetCellFormula(sheet, anchor, ""); err != nil {
		return err
	}
	return f.SetCellValue(sheet, anchor, v)
}

// findLabel scans the given window in row-major order and returns the
// 1-based coordinates of the first cell whose text contains label
// (case-insensitive).
func findLabel(f *excelize.File, sheet, label string, maxRows, maxCols int) (row, col int, text string, found bool, err error) {
	target := strings.ToLower(label)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, 0, "", false, err
	}
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	for r, cells := range rows {
		if len(cells) > maxCols {
			cells = cells[:maxCols]
		}
		for c, v := range cells {
			if v == "" {
				continue
			}
			if strings.Contains(strings.ToLower(v), target) {
				return r + 1, c + 1, v, true, nil
			}
		}
	}
	return 0, 0, "", false, nil
}

// UpsertLabel finds the first cell containing label and updates it in
// place. If the matched cell carries label and value together (it
// contains a ":"), the whole cell is rewritten as "label: replacement";
// otherwise the replacement goes into the cell immediately to the
// right. Without a match, "label: replacement" is written to
// defaultCell. All writes land on merge anchors and exactly one cell is
// modified, so repeated calls are idempotent.
func UpsertLabel(f *excelize.File, sheet, label, replacement, defaultCell string) error {
	row, col, text, found, err := findLabel(f, sheet, label, upsertSearchRows, upsertSearchCols)
	if err != nil {
		return err
	}
	if !found {
		return setAnchored(f, sheet, defaultCell, fmt.Sprintf("%s: %s", label, replacement))
	}
	if strings.Contains(strings.TrimSpace(text), ":") {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return setAnchored(f, sheet, cell, fmt.Sprintf("%s: %s", label, replacement))
	}
	right, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	return setAnchored(f, sheet, right, replacement)
}

// FindLabelNeighbor returns the cell immediately to the right of the
// first occurrence of label, without mutating anything. The second
// return value is false when the label is absent from the search
// window.
func FindLabelNeighbor(f *excelize.File, sheet, label string) (string, bool, error) {
	row, col, _, found, err := findLabel(f, sheet, label, lookupSearchRows, lookupSearchCols)
	if err != nil || !found {
		return "", false, err
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return "", false, err
	}
	return cell, true, nil
}

// sheetExists reports whether the workbook contains a sheet with the
// given name.
func sheetExists(f *excelize.File, name string) bool {
	idx, err := f.GetSheetIndex(name)
	return err == nil && idx != -1
}
