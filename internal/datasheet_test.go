package internal

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteDataSheetCreatesHidden(t *testing.T) {
	f := excelize.NewFile()
	table := Table{
		Headers: []string{"MONTH", "CNT_DPAN_POS", "SUM_EXP_DPAN_POS"},
		Rows: [][]string{
			{"2025-08", "1234", "56789.10"},
			{"2025-07", "1100", "48000.00"},
		},
	}

	if err := WriteDataSheet(f, "Data_Metrics", table); err != nil {
		t.Fatalf("WriteDataSheet: %v", err)
	}

	if !sheetExists(f, "Data_Metrics") {
		t.Fatal("expected Data_Metrics sheet to exist")
	}
	visible, err := f.GetSheetVisible("Data_Metrics")
	if err != nil {
		t.Fatalf("GetSheetVisible: %v", err)
	}
	if visible {
		t.Error("expected data sheet to be hidden")
	}

	if got := cellValue(t, f, "Data_Metrics", "B1"); got != "CNT_DPAN_POS" {
		t.Errorf("header B1 = %q", got)
	}
	if got := cellValue(t, f, "Data_Metrics", "B2"); got != "1234" {
		t.Errorf("B2 = %q", got)
	}
	if got := cellValue(t, f, "Data_Metrics", "C3"); got != "48000" {
		t.Errorf("C3 = %q", got)
	}
}

func TestWriteDataSheetReplacesExisting(t *testing.T) {
	f := excelize.NewFile()
	old := Table{
		Headers: []string{"MONTH", "COUNT"},
		Rows:    [][]string{{"2025-07", "1"}, {"2025-06", "2"}, {"2025-05", "3"}},
	}
	if err := WriteDataSheet(f, "Data_Metrics", old); err != nil {
		t.Fatalf("first WriteDataSheet: %v", err)
	}

	fresh := Table{
		Headers: []string{"MONTH", "COUNT"},
		Rows:    [][]string{{"2025-08", "9"}},
	}
	if err := WriteDataSheet(f, "Data_Metrics", fresh); err != nil {
		t.Fatalf("second WriteDataSheet: %v", err)
	}

	if got := cellValue(t, f, "Data_Metrics", "B2"); got != "9" {
		t.Errorf("B2 = %q", got)
	}
	if got := cellValue(t, f, "Data_Metrics", "A3"); got != "" {
		t.Errorf("stale row survived replacement, A3 = %q", got)
	}
	if got := DataRowCount(f, "Data_Metrics"); got != 1 {
		t.Errorf("DataRowCount = %d, expected 1", got)
	}
}

func TestTypedValue(t *testing.T) {
	tests := []struct {
		in       string
		expected any
	}{
		{"1234", int64(1234)},
		{"-7", int64(-7)},
		{"56789.10", 56789.10},
		{"2025-08", "2025-08"},
		{"", ""},
		{"N/A", "N/A"},
	}
	for _, tt := range tests {
		if got := typedValue(tt.in); got != tt.expected {
			t.Errorf("typedValue(%q) = %v (%T), expected %v (%T)",
				tt.in, got, got, tt.expected, tt.expected)
		}
	}
}

func TestDataRowCountStopsAtGap(t *testing.T) {
	f := excelize.NewFile()
	if err := WriteDataSheet(f, "Data_Usage", Table{
		Headers: []string{"KEY", "VALUE"},
		Rows:    [][]string{{"a", "1"}, {"b", "2"}},
	}); err != nil {
		t.Fatalf("WriteDataSheet: %v", err)
	}
	// A gap in column A ends the data region.
	f.SetCellValue("Data_Usage", "A5", "orphan")

	if got := DataRowCount(f, "Data_Usage"); got != 2 {
		t.Errorf("DataRowCount = %d, expected 2", got)
	}
}

func TestDataRowCountMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	if got := DataRowCount(f, "Data_Missing"); got != 0 {
		t.Errorf("DataRowCount on missing sheet = %d", got)
	}
}

func TestReadDataTable(t *testing.T) {
	f := excelize.NewFile()
	if err := WriteDataSheet(f, "Data_Fraud", Table{
		Headers: []string{"CATEGORY", "DEBIT", "CREDIT"},
		Rows:    [][]string{{"Lost or stolen DPANs", "10", "20"}},
	}); err != nil {
		t.Fatalf("WriteDataSheet: %v", err)
	}

	table, ok := ReadDataTable(f, "Data_Fraud")
	if !ok {
		t.Fatal("expected data table to be readable")
	}
	if got := table.Get(0, "DEBIT"); got != "10" {
		t.Errorf("Get(0, DEBIT) = %q", got)
	}

	if _, ok := ReadDataTable(f, "Data_Nope"); ok {
		t.Error("expected false for missing sheet")
	}
}
