package internal

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// dataSheetPrefix marks hidden raw-data sheets. They are written by
// WriteDataSheet and stripped from the READY copy.
const dataSheetPrefix = "Data_"

// FillValues replaces every cell the report's wiring targets with its
// literal computed value, reading from the hidden data sheets. Used to
// build the READY workbook, where no formulas may remain.
func FillValues(f *excelize.File, rep Report) error {
	for _, sw := range rep.Sheets {
		if !sheetExists(f, sw.Sheet) {
			continue
		}
		t, ok := ReadDataTable(f, sw.Data)
		if !ok || len(t.Rows) == 0 {
			continue
		}
		if err := fillSheet(f, sw, t); err != nil {
			return fmt.Errorf("filling sheet %s: %w", sw.Sheet, err)
		}
	}
	return nil
}

func fillSheet(f *excelize.File, sw SheetWiring, t Table) error {
	// Every address written here is recorded so the neighbor auto-fill
	// can never target a cell the wiring itself owns.
	written := make(map[string]bool)
	set := func(cell string, v any) error {
		written[cell] = true
		return setAnchored(f, sw.Sheet, cell, v)
	}

	rowValues := make(map[int]map[string]float64)
	rowTotals := make(map[int]float64)
	for _, mr := range sw.MetricRows {
		vals := make(map[string]float64, len(mr.Cells))
		for _, h := range mr.Cells {
			v := headerValue(t, h)
			vals[h.Col] = v
			if err := set(h.Col+itoa(mr.Row), v); err != nil {
				return err
			}
		}
		rowValues[mr.Row] = vals

		var total float64
		switch mr.Total {
		case TotalWeighted:
			weights := rowValues[mr.OtherRow]
			var acc float64
			for _, h := range mr.Cells {
				acc += weights[h.Col] * vals[h.Col]
			}
			den := rowTotals[mr.OtherRow]
			if den == 0 {
				den = 1
			}
			total = acc / den
		case TotalComplement:
			total = 1 - rowTotals[mr.OtherRow]
		default:
			for _, h := range mr.Cells {
				total += vals[h.Col]
			}
		}
		rowTotals[mr.Row] = total
		if err := set(mr.TotalCol+itoa(mr.Row), total); err != nil {
			return err
		}
	}

	if b := sw.Block; b != nil {
		n := len(t.Rows)
		if b.MaxRows > 0 && n > b.MaxRows {
			n = b.MaxRows
		}
		for i := 0; i < n; i++ {
			r := b.StartRow + i
			for _, cm := range b.Columns {
				if cm.WiredOnly {
					continue
				}
				raw, ok := blockValue(t, cm, i)
				if !ok {
					continue
				}
				var v any
				if cm.Numeric {
					v = ToNumber(raw)
				} else {
					v = typedValue(raw)
				}
				if err := set(cm.Target+itoa(r), v); err != nil {
					return err
				}
			}
		}
		// The wired pass targets up to MaxRows rows; reserve them all.
		reserve := b.MaxRows
		if reserve == 0 {
			reserve = n
		}
		for i := 0; i < reserve; i++ {
			for _, cm := range b.Columns {
				written[cm.Target+itoa(b.StartRow+i)] = true
			}
		}
	}

	if k := sw.Keyed; k != nil {
		values := make(map[int]float64)
		var total float64
		for r := k.FirstRow; r <= k.LastRow; r++ {
			key, err := f.GetCellValue(sw.Sheet, k.KeyCol+itoa(r))
			if err != nil {
				return err
			}
			v := ToNumber(t.Get(0, key))
			values[r] = v
			total += v
			if err := set(k.ValueCol+itoa(r), v); err != nil {
				return err
			}
		}
		if err := set(k.ValueCol+itoa(k.TotalRow), total); err != nil {
			return err
		}
		for r := k.FirstRow; r <= k.LastRow; r++ {
			share := 0.0
			if total != 0 {
				share = values[r] / total
			}
			if err := set(k.ShareCol+itoa(r), share); err != nil {
				return err
			}
		}
	}

	if l := sw.Lookup; l != nil {
		byKey := make(map[string][]string, len(t.Rows))
		for _, row := range t.Rows {
			if len(row) == 0 {
				continue
			}
			key := strings.ReplaceAll(normalizeLabel(row[0]), l.ReplaceOld, l.ReplaceNew)
			byKey[key] = row
		}
		for r := l.FirstRow; r <= l.LastRow; r++ {
			label, err := f.GetCellValue(sw.Sheet, l.KeyCol+itoa(r))
			if err != nil {
				return err
			}
			if label == "" || strings.Contains(label, l.SkipMarker) {
				for _, cm := range l.Columns {
					if err := set(cm.Target+itoa(r), nil); err != nil {
						return err
					}
				}
				continue
			}
			row, ok := byKey[strings.ReplaceAll(normalizeLabel(label), l.ReplaceOld, l.ReplaceNew)]
			if !ok {
				continue
			}
			for _, cm := range l.Columns {
				idx := t.HeaderIndex(cm.Header)
				raw := ""
				if idx >= 0 && idx < len(row) {
					raw = row[idx]
				}
				if err := set(cm.Target+itoa(r), ToNumber(raw)); err != nil {
					return err
				}
			}
		}
	}

	for _, tc := range sw.Totals {
		sum, err := sumRange(f, sw.Sheet, tc.From, tc.To)
		if err != nil {
			return err
		}
		if err := set(tc.Cell, sum); err != nil {
			return err
		}
	}

	if nb := sw.Neighbor; nb != nil {
		addr, found, err := FindLabelNeighbor(f, sw.Sheet, nb.Label)
		if err != nil {
			return err
		}
		// Writing into a cell the wiring owns would clobber a derived
		// value with a copy of itself; skip instead.
		if found && !written[addr] {
			raw, err := f.GetCellValue(sw.Sheet, nb.SourceCell)
			if err != nil {
				return err
			}
			if err := setAnchored(f, sw.Sheet, addr, ToNumber(raw)); err != nil {
				return err
			}
		}
	}

	return nil
}

func headerValue(t Table, h HeaderRef) float64 {
	if t.HeaderIndex(h.Header) >= 0 {
		return ToNumber(t.Get(0, h.Header))
	}
	if h.Fallback != "" {
		return ToNumber(t.Get(0, h.Fallback))
	}
	return 0
}

// blockValue resolves one cell of a RowBlock from the data table,
// preferring the header binding in this pass.
func blockValue(t Table, cm ColumnMap, row int) (string, bool) {
	if cm.Header != "" {
		if t.HeaderIndex(cm.Header) < 0 {
			return "", false
		}
		return t.Get(row, cm.Header), true
	}
	idx := columnIndex(cm.Source)
	if idx < 0 {
		return "", false
	}
	if idx >= len(t.Rows[row]) {
		return "", true
	}
	return t.Rows[row][idx], true
}

// columnIndex converts a column letter ("A", "AB") to a 0-based index.
func columnIndex(col string) int {
	n, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return -1
	}
	return n - 1
}

// normalizeLabel collapses all whitespace runs (including NBSP and
// newlines) to single spaces, so sheet labels match CSV labels.
func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func sumRange(f *excelize.File, sheet, from, to string) (float64, error) {
	c1, r1, err := excelize.CellNameToCoordinates(from)
	if err != nil {
		return 0, err
	}
	c2, r2, err := excelize.CellNameToCoordinates(to)
	if err != nil {
		return 0, err
	}
	var sum float64
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return 0, err
			}
			v, err := f.GetCellValue(sheet, cell)
			if err != nil {
				return 0, err
			}
			sum += ToNumber(v)
		}
	}
	return sum, nil
}

// BuildReady turns a freshly wired workbook into the values-only READY
// variant: computed literals in place of formulas, no Data_* sheets.
func BuildReady(f *excelize.File, rep Report, monthLabel string) error {
	if err := FillValues(f, rep); err != nil {
		return err
	}
	for _, name := range f.GetSheetList() {
		if strings.HasPrefix(name, dataSheetPrefix) {
			if err := f.DeleteSheet(name); err != nil {
				return fmt.Errorf("dropping sheet %s: %w", name, err)
			}
		}
	}
	if rep.StampMonth {
		if err := StampReportingMonth(f, monthLabel, rep.NoStampTokens); err != nil {
			return err
		}
	}
	return nil
}
