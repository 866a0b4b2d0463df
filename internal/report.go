package internal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Report describes one report variant: which CSVs feed which hidden
// data sheets, and how each visible sheet is wired to them. The
// layouts are configuration data consumed by a single engine
// (WireFormulas for the WIRED workbook, FillValues for the READY one).
type Report struct {
	Name     string
	Workbook string // default WIRED workbook filename
	ReadyOut string // default READY output filename
	Feeds    []DataFeed
	Sheets   []SheetWiring

	// StampMonth controls the Reporting Month stamp; sheets whose name
	// contains one of NoStampTokens (case-insensitive) are skipped.
	StampMonth    bool
	NoStampTokens []string
}

// DataFeed binds a hidden data sheet to the CSV glob patterns that
// feed it, tried in order.
type DataFeed struct {
	Sheet    string
	Patterns []string
}

// SheetWiring describes one visible sheet. At most one of each block
// kind is used per sheet; empty blocks are skipped.
type SheetWiring struct {
	Sheet      string
	Data       string // hidden data sheet this sheet reads from
	MetricRows []MetricRow
	Block      *RowBlock
	Keyed      *KeyedColumn
	Lookup     *LookupBlock
	Totals     []TotalCell
	Labels     []Label
	Neighbor   *NeighborFill
}

// TotalKind selects how a MetricRow's total column is derived.
type TotalKind int

const (
	// TotalSum adds the row's value cells.
	TotalSum TotalKind = iota
	// TotalWeighted averages the row's cells weighted by another row
	// (guarding against a zero weight total).
	TotalWeighted
	// TotalComplement is 1 minus another row's total.
	TotalComplement
)

// MetricRow is one row of header-bound cells plus a derived total.
type MetricRow struct {
	Row      int
	Cells    []HeaderRef
	TotalCol string
	Total    TotalKind
	// OtherRow is the weight row for TotalWeighted and the complemented
	// row for TotalComplement.
	OtherRow int
}

// HeaderRef binds a target column to a data-sheet header, with an
// optional fallback header for exports that renamed the column.
type HeaderRef struct {
	Col      string
	Header   string
	Fallback string
}

// RowBlock copies contiguous data rows into a sheet region.
type RowBlock struct {
	StartRow int
	MaxRows  int // 0: as many rows as the data sheet holds
	Columns  []ColumnMap
}

// ColumnMap maps a target column to a data column, either positionally
// (Source, a data column letter) or by header name (Header). When both
// are set the wired pass uses Source and the values pass uses Header.
type ColumnMap struct {
	Target    string
	Source    string
	Header    string
	Numeric   bool // values pass coerces through ToNumber
	WiredOnly bool // cosmetic labels overwrite this column in READY
}

// KeyedColumn fills a value column by looking up each row's key text
// in the data sheet's header row, plus a share column and total row.
type KeyedColumn struct {
	FirstRow, LastRow          int
	KeyCol, ValueCol, ShareCol string
	TotalRow                   int
}

// LookupBlock fills rows keyed by a label column, matching labels
// against the data sheet's first column after a text substitution.
// Rows whose label is empty or contains SkipMarker are left blank.
type LookupBlock struct {
	FirstRow, LastRow      int
	KeyCol                 string
	SkipMarker             string
	ReplaceOld, ReplaceNew string
	Columns                []ColumnMap
}

// TotalCell is a plain SUM over a fixed range.
type TotalCell struct {
	Cell     string
	From, To string
}

// Label is a fixed cosmetic text.
type Label struct {
	Cell string
	Text string
}

// NeighborFill copies a computed cell's value next to a free-floating
// caption. It only runs in the values-only pass, and only when the
// target cell is not one the sheet's own wiring writes.
type NeighborFill struct {
	Label      string
	SourceCell string
}

// WireFormulas writes lookup formulas into every visible sheet of the
// report. Sheets or data sheets missing from the workbook are skipped,
// so the same definition works against partial templates.
func WireFormulas(f *excelize.File, rep Report) error {
	for _, sw := range rep.Sheets {
		if !sheetExists(f, sw.Sheet) || !sheetExists(f, sw.Data) {
			continue
		}
		if err := wireSheet(f, sw); err != nil {
			return fmt.Errorf("wiring sheet %s: %w", sw.Sheet, err)
		}
	}
	return nil
}

func wireSheet(f *excelize.File, sw SheetWiring) error {
	for _, mr := range sw.MetricRows {
		for _, h := range mr.Cells {
			cell := h.Col + itoa(mr.Row)
			if err := f.SetCellFormula(sw.Sheet, cell, headerFormula(sw.Data, h)); err != nil {
				return err
			}
		}
		cell := mr.TotalCol + itoa(mr.Row)
		if err := f.SetCellFormula(sw.Sheet, cell, totalFormula(mr)); err != nil {
			return err
		}
	}

	if b := sw.Block; b != nil {
		n := b.MaxRows
		if n == 0 {
			n = DataRowCount(f, sw.Data)
		}
		for i := 0; i < n; i++ {
			r := b.StartRow + i
			off := i + 2
			for _, cm := range b.Columns {
				var formula string
				if cm.Source != "" {
					formula = fmt.Sprintf(`=IFERROR(INDEX(%s!$%s:$%s,%d),"")`, sw.Data, cm.Source, cm.Source, off)
				} else {
					formula = fmt.Sprintf(`=IFERROR(INDEX(%s!$1:$1048576,%d,MATCH("%s",%s!$1:$1,0)),"")`, sw.Data, off, cm.Header, sw.Data)
				}
				if err := f.SetCellFormula(sw.Sheet, cm.Target+itoa(r), formula); err != nil {
					return err
				}
			}
		}
	}

	if k := sw.Keyed; k != nil {
		for r := k.FirstRow; r <= k.LastRow; r++ {
			value := fmt.Sprintf(`=IFERROR(INDEX(%s!$1:$2,2,MATCH($%s%d,%s!$1:$1,0)),"")`, sw.Data, k.KeyCol, r, sw.Data)
			if err := f.SetCellFormula(sw.Sheet, k.ValueCol+itoa(r), value); err != nil {
				return err
			}
			share := fmt.Sprintf(`=IFERROR(IF($%s%d=0,0,$%s%d/$%s$%d),"")`, k.ValueCol, r, k.ValueCol, r, k.ValueCol, k.TotalRow)
			if err := f.SetCellFormula(sw.Sheet, k.ShareCol+itoa(r), share); err != nil {
				return err
			}
		}
		total := fmt.Sprintf("=SUM(%s%d:%s%d)", k.ValueCol, k.FirstRow, k.ValueCol, k.LastRow)
		if err := f.SetCellFormula(sw.Sheet, k.ValueCol+itoa(k.TotalRow), total); err != nil {
			return err
		}
	}

	if l := sw.Lookup; l != nil {
		for r := l.FirstRow; r <= l.LastRow; r++ {
			for _, cm := range l.Columns {
				if err := f.SetCellFormula(sw.Sheet, cm.Target+itoa(r), lookupFormula(sw.Data, l, cm.Source, r)); err != nil {
					return err
				}
			}
		}
	}

	for _, tc := range sw.Totals {
		if err := f.SetCellFormula(sw.Sheet, tc.Cell, fmt.Sprintf("=SUM(%s:%s)", tc.From, tc.To)); err != nil {
			return err
		}
	}

	for _, lb := range sw.Labels {
		if err := f.SetCellValue(sw.Sheet, lb.Cell, lb.Text); err != nil {
			return err
		}
	}

	return nil
}

func headerFormula(data string, h HeaderRef) string {
	primary := fmt.Sprintf(`INDEX(%s!$1:$1048576,2,MATCH("%s",%s!$1:$1,0))`, data, h.Header, data)
	if h.Fallback == "" {
		return `=IFERROR(` + primary + `,"")`
	}
	fallback := fmt.Sprintf(`INDEX(%s!$1:$1048576,2,MATCH("%s",%s!$1:$1,0))`, data, h.Fallback, data)
	return `=IFERROR(` + primary + `,IFERROR(` + fallback + `,""))`
}

func totalFormula(mr MetricRow) string {
	switch mr.Total {
	case TotalWeighted:
		terms := make([]string, len(mr.Cells))
		for i, h := range mr.Cells {
			terms[i] = fmt.Sprintf("%s%d*%s%d", h.Col, mr.OtherRow, h.Col, mr.Row)
		}
		weightTotal := mr.TotalCol + itoa(mr.OtherRow)
		return fmt.Sprintf("=(%s) / IF(%s=0,1,%s)", strings.Join(terms, " + "), weightTotal, weightTotal)
	case TotalComplement:
		return fmt.Sprintf("=1 - %s%d", mr.TotalCol, mr.OtherRow)
	default:
		first := mr.Cells[0].Col
		last := mr.Cells[len(mr.Cells)-1].Col
		return fmt.Sprintf("=SUM(%s%d:%s%d)", first, mr.Row, last, mr.Row)
	}
}

func lookupFormula(data string, l *LookupBlock, srcCol string, r int) string {
	key := fmt.Sprintf(`SUBSTITUTE($%s%d,"%s","%s")`, l.KeyCol, r, l.ReplaceOld, l.ReplaceNew)
	return fmt.Sprintf(`=IF(OR($%s%d="",ISNUMBER(SEARCH("%s",$%s%d))),"",IFERROR(INDEX(%s!$%s:$%s,MATCH(%s,%s!$A:$A,0)),""))`,
		l.KeyCol, r, l.SkipMarker, l.KeyCol, r, data, srcCol, srcCol, key, data)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
