package internal

import (
	"fmt"
	"sort"
)

// The report definitions below are layout data: which CSV feeds which
// hidden sheet, and which cells of each visible sheet read from it.
// Both Apple Pay variants share the Metrics / Declines / Usage /
// Merchant structure; BELFIUS adds the Fraud sheet and the Reporting
// Month stamp.

func metricsSheet() SheetWiring {
	return SheetWiring{
		Sheet: "Metrics",
		Data:  "Data_Metrics",
		MetricRows: []MetricRow{
			{Row: 7, TotalCol: "E", Total: TotalSum, Cells: []HeaderRef{
				{Col: "B", Header: "CNT_DPAN_DEBIT"},
				{Col: "C", Header: "CNT_DPAN_CREDIT"},
				{Col: "D", Header: "CNT_DPAN_PP", Fallback: "CNT_DPAN_POS_PP"},
			}},
			{Row: 8, TotalCol: "E", Total: TotalSum, Cells: []HeaderRef{
				{Col: "B", Header: "SUM_EXP_DPAN_DEBIT"},
				{Col: "C", Header: "SUM_EXP_DPAN_CREDIT"},
				{Col: "D", Header: "SUM_EXP_DPAN_PP", Fallback: "SUM_EXP_DPAN_POS_PP"},
			}},
			{Row: 9, TotalCol: "E", Total: TotalWeighted, OtherRow: 7, Cells: []HeaderRef{
				{Col: "B", Header: "PERC_DPAN_POS_DEBIT"},
				{Col: "C", Header: "PERC_DPAN_POS_CREDIT"},
				{Col: "D", Header: "PERC_DPAN_POS_PP"},
			}},
			{Row: 10, TotalCol: "E", Total: TotalComplement, OtherRow: 9, Cells: []HeaderRef{
				{Col: "B", Header: "PERC_DPAN_REM_DEBIT"},
				{Col: "C", Header: "PERC_DPAN_REM_CREDIT"},
				{Col: "D", Header: "PERC_DPAN_REM_PP"},
			}},
			{Row: 11, TotalCol: "E", Total: TotalWeighted, OtherRow: 8, Cells: []HeaderRef{
				{Col: "B", Header: "PERC_EXP_DPAN_POS_DEBIT"},
				{Col: "C", Header: "PERC_EXP_DPAN_POS_CREDIT"},
				{Col: "D", Header: "PERC_EXP_DPAN_POS_PP"},
			}},
			{Row: 12, TotalCol: "E", Total: TotalComplement, OtherRow: 11, Cells: []HeaderRef{
				{Col: "B", Header: "PERC_EXP_DPAN_REM_DEBIT"},
				{Col: "C", Header: "PERC_EXP_DPAN_REM_CREDIT"},
				{Col: "D", Header: "PERC_EXP_DPAN_REM_PP"},
			}},
			{Row: 14, TotalCol: "E", Total: TotalSum, Cells: []HeaderRef{
				{Col: "B", Header: "CNT_ACTIVE_DPAN_DEBIT"},
				{Col: "C", Header: "CNT_ACTIVE_DPAN_CREDIT"},
				{Col: "D", Header: "CNT_ACTIVE_DPAN_PP"},
			}},
		},
		// Filled next to its caption only in the READY copy; the wired
		// workbook must not gain a helper cell here (circular refs).
		Neighbor: &NeighborFill{
			Label:      "Monthly DPAN transaction count",
			SourceCell: "E7",
		},
	}
}

func declinesSheet() SheetWiring {
	return SheetWiring{
		Sheet: "Declines",
		Data:  "Data_Declines",
		Block: &RowBlock{
			StartRow: 8,
			Columns: []ColumnMap{
				{Target: "A", Source: "A", WiredOnly: true},
				{Target: "B", Source: "B", Numeric: true},
				{Target: "C", Source: "C", Numeric: true},
				{Target: "D", Source: "D", Numeric: true},
				{Target: "F", Source: "E", Numeric: true},
				{Target: "G", Source: "F", Numeric: true},
				{Target: "H", Source: "G", Numeric: true},
			},
		},
		Labels: []Label{
			{Cell: "A7", Text: "Transaction Size"},
			{Cell: "A8", Text: "< 10€"},
			{Cell: "A9", Text: "€10 - €25"},
			{Cell: "A10", Text: "€25 - €50"},
			{Cell: "A11", Text: "€50 - €100"},
			{Cell: "A12", Text: "€100 - €250"},
			{Cell: "A13", Text: "€250 - €1000"},
			{Cell: "A14", Text: ">= €1000"},
			{Cell: "A15", Text: "Total"},
			{Cell: "A17", Text: "* Leave cell blank if not applicable"},
		},
		Totals: []TotalCell{
			{Cell: "B15", From: "B8", To: "B14"},
			{Cell: "C15", From: "C8", To: "C14"},
			{Cell: "F15", From: "F8", To: "F14"},
			{Cell: "G15", From: "G8", To: "G14"},
		},
	}
}

func usageSheet() SheetWiring {
	return SheetWiring{
		Sheet: "Usage Frequency",
		Data:  "Data_Usage",
		Keyed: &KeyedColumn{
			FirstRow: 8,
			LastRow:  18,
			KeyCol:   "B",
			ValueCol: "F",
			ShareCol: "G",
			TotalRow: 19,
		},
	}
}

func merchantSheet(cols []ColumnMap) SheetWiring {
	return SheetWiring{
		Sheet: "Merchant Report",
		Data:  "Data_Merchant",
		Block: &RowBlock{StartRow: 7, MaxRows: 100, Columns: cols},
	}
}

func fraudSheet() SheetWiring {
	return SheetWiring{
		Sheet: "Fraud",
		Data:  "Data_Fraud",
		Lookup: &LookupBlock{
			FirstRow:   7,
			LastRow:    46,
			KeyCol:     "A",
			SkipMarker: "Leave cell blank",
			ReplaceOld: "Devices",
			ReplaceNew: "DPANs",
			Columns: []ColumnMap{
				{Target: "B", Source: "B", Header: "Debit"},
				{Target: "C", Source: "C", Header: "Credit"},
				{Target: "D", Source: "D", Header: "Prepaid"},
				{Target: "E", Source: "E", Header: "Total"},
			},
		},
	}
}

func belfiusReport() Report {
	return Report{
		Name:     "belfius",
		Workbook: "applepay_rep_perf_BELFIUS_DATAWIRED.xlsx",
		ReadyOut: "applepay_rep_perf_BELFIUS_READY.xlsx",
		Feeds: []DataFeed{
			{Sheet: "Data_Metrics", Patterns: []string{"Metrics.csv", "*metrics*.csv"}},
			{Sheet: "Data_Declines", Patterns: []string{"Decline.csv", "*decline*.csv"}},
			{Sheet: "Data_Fraud", Patterns: []string{"Fraud.csv", "*fraud*.csv"}},
			{Sheet: "Data_Usage", Patterns: []string{"Usage.csv", "*usage*.csv"}},
			{Sheet: "Data_Merchant", Patterns: []string{"Merchant.csv", "*merchant*.csv"}},
		},
		Sheets: []SheetWiring{
			metricsSheet(),
			declinesSheet(),
			usageSheet(),
			merchantSheet([]ColumnMap{
				{Target: "A", Source: "A", Header: "RANK"},
				{Target: "B", Source: "B", Header: "NOM_CMR"},
				{Target: "C", Source: "C", Header: "PERC"},
				{Target: "D", Source: "D", Header: "SPENT"},
				{Target: "E", Source: "E", Header: "CNT"},
			}),
			fraudSheet(),
		},
		StampMonth:    true,
		NoStampTokens: []string{"glossary"},
	}
}

func bancontactReport() Report {
	return Report{
		Name:     "bancontact",
		Workbook: "applepay_rep_perf_BANCONTACT_WIRED_hidden.xlsx",
		ReadyOut: "applepay_rep_perf_BANCONTACT_READY.xlsx",
		Feeds: []DataFeed{
			{Sheet: "Data_Metrics", Patterns: []string{"Metrics.csv", "BANCONTACT_metrics*.csv", "*metrics*.csv"}},
			{Sheet: "Data_Declines", Patterns: []string{"Decline.csv", "BANCONTACT_DECLINE*.csv", "*decline*.csv"}},
			{Sheet: "Data_Usage", Patterns: []string{"Usage.csv", "BANCONTACT_USAGE*.csv", "*usage*.csv"}},
			{Sheet: "Data_Merchant", Patterns: []string{"Merchant.csv", "BANCONTACT_merchant*.csv", "*merchant*.csv"}},
		},
		Sheets: []SheetWiring{
			metricsSheet(),
			declinesSheet(),
			usageSheet(),
			// Bancontact merchant exports vary their column order, so
			// the wired formulas match on header names too.
			merchantSheet([]ColumnMap{
				{Target: "A", Header: "RANK"},
				{Target: "B", Header: "NOM_CMR"},
				{Target: "C", Header: "PERC"},
				{Target: "D", Header: "SPENT"},
				{Target: "E", Header: "CNT"},
			}),
		},
		StampMonth: false,
	}
}

var reports = map[string]func() Report{
	"belfius":    belfiusReport,
	"bancontact": bancontactReport,
}

// ReportByName returns a fresh definition of the named report variant.
func ReportByName(name string) (Report, error) {
	build, ok := reports[name]
	if !ok {
		return Report{}, fmt.Errorf("unknown report type: %s (available: %v)", name, ReportNames())
	}
	return build(), nil
}

// ReportNames lists the available report variants.
func ReportNames() []string {
	var names []string
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
