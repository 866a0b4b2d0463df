package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestReadTable(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "export.csv", []byte(
		"MONTH,CNT_DPAN_POS,SUM_EXP_DPAN_POS\n2025-08,1234,56789.10\n2025-07,1100,\n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(table.Headers) != 3 {
		t.Fatalf("expected 3 headers, got %d", len(table.Headers))
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if got := table.Get(0, "CNT_DPAN_POS"); got != "1234" {
		t.Errorf("Get(0, CNT_DPAN_POS) = %q", got)
	}
	if got := table.Get(1, "SUM_EXP_DPAN_POS"); got != "" {
		t.Errorf("expected empty trailing field, got %q", got)
	}
}

func TestReadTableBOM(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "bom.csv", append([]byte{0xEF, 0xBB, 0xBF},
		[]byte("MONTH,COUNT\n2025-08,5\n")...))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if got := table.HeaderIndex("MONTH"); got != 0 {
		t.Errorf("BOM not stripped, HeaderIndex(MONTH) = %d", got)
	}
}

func TestReadTableLatin1(t *testing.T) {
	dir := t.TempDir()
	// "café" encoded as Latin-1, invalid as UTF-8.
	path := writeTestFile(t, dir, "latin1.csv", []byte("MERCHANT,COUNT\ncaf\xe9,12\n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if got := table.Get(0, "MERCHANT"); got != "café" {
		t.Errorf("expected latin-1 fallback to decode café, got %q", got)
	}
}

func TestReadTableRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "ragged.csv", []byte("A,B,C\n1,2,3\n4,5\n6\n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	if got := table.Get(1, "C"); got != "" {
		t.Errorf("short row should read empty, got %q", got)
	}
	if got := table.Get(2, "A"); got != "6" {
		t.Errorf("Get(2, A) = %q", got)
	}
}

func TestReadTableEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "empty.csv", nil)

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(table.Headers) != 0 || len(table.Rows) != 0 {
		t.Errorf("expected empty table, got %+v", table)
	}
}

func TestHeaderIndexTrims(t *testing.T) {
	table := Table{Headers: []string{" MONTH ", "COUNT"}}
	if got := table.HeaderIndex("MONTH"); got != 0 {
		t.Errorf("HeaderIndex(MONTH) = %d", got)
	}
	if got := table.HeaderIndex("MISSING"); got != -1 {
		t.Errorf("HeaderIndex(MISSING) = %d", got)
	}
}

func TestResolveCSVs(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "APPLEPAY_METRICS_202508.csv", []byte("A\n1\n"))
	writeTestFile(t, dir, "APPLEPAY_DECLINES_202508.csv", []byte("A\n1\n"))

	feeds := []DataFeed{
		{Sheet: "Data_Metrics", Patterns: []string{"APPLEPAY_METRICS_*.csv"}},
		{Sheet: "Data_Declines", Patterns: []string{"DECLINES_*.csv", "APPLEPAY_DECLINES_*.csv"}},
		{Sheet: "Data_Fraud", Patterns: []string{"APPLEPAY_FRAUD_*.csv"}},
	}

	resolved, missing := ResolveCSVs(dir, feeds)
	if got := resolved["Data_Metrics"]; filepath.Base(got) != "APPLEPAY_METRICS_202508.csv" {
		t.Errorf("Data_Metrics resolved to %q", got)
	}
	if got := resolved["Data_Declines"]; filepath.Base(got) != "APPLEPAY_DECLINES_202508.csv" {
		t.Errorf("fallback pattern should match, got %q", got)
	}
	if len(missing) != 1 || missing[0] != "Data_Fraud" {
		t.Errorf("expected Data_Fraud missing, got %v", missing)
	}
}

func TestResolveCSVsPicksFirstSorted(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "APPLEPAY_METRICS_202507.csv", []byte("A\n1\n"))
	writeTestFile(t, dir, "APPLEPAY_METRICS_202508.csv", []byte("A\n1\n"))

	feeds := []DataFeed{{Sheet: "Data_Metrics", Patterns: []string{"APPLEPAY_METRICS_*.csv"}}}
	resolved, missing := ResolveCSVs(dir, feeds)
	if len(missing) != 0 {
		t.Fatalf("unexpected missing feeds: %v", missing)
	}
	if got := filepath.Base(resolved["Data_Metrics"]); got != "APPLEPAY_METRICS_202507.csv" {
		t.Errorf("expected first sorted match, got %q", got)
	}
}
