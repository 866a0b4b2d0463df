package internal

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// reportingMonthLabel is the caption searched for on report sheets.
const reportingMonthLabel = "Reporting Month"

// reportingMonthDefaultCell receives the stamp when no caption exists.
const reportingMonthDefaultCell = "A2"

// PrevMonthLabel returns the previous calendar month as "January 2006".
// Reports are produced early in the month for the month just ended.
func PrevMonthLabel(now time.Time) string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, 0, -1).Format("January 2006")
}

// StampReportingMonth upserts the Reporting Month caption on every
// sheet except hidden data sheets and sheets whose name contains one
// of the exclude tokens (case-insensitive).
func StampReportingMonth(f *excelize.File, label string, excludeTokens []string) error {
	for _, name := range f.GetSheetList() {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, strings.ToLower(dataSheetPrefix)) {
			continue
		}
		if containsAny(lower, excludeTokens) {
			continue
		}
		if err := UpsertLabel(f, name, reportingMonthLabel, label, reportingMonthDefaultCell); err != nil {
			return err
		}
	}
	return nil
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}
