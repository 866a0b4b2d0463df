package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"
)

// Refresher runs one end-to-end workbook refresh. The logger is
// injected by the caller; there is no package-level logging state.
type Refresher struct {
	Log *log.Logger
	Cfg *Config
}

// RunOptions are the per-invocation knobs, usually from the CLI.
// Empty fields fall back to the report's defaults.
type RunOptions struct {
	Report   string
	Workbook string
	CSVDir   string
	ReadyOut string
	NoReady  bool
	Now      time.Time
}

// FeedResult records one data sheet written during a run.
type FeedResult struct {
	Sheet string
	File  string
	Rows  int
	Cols  int
}

// RunSummary is what a successful run produced.
type RunSummary struct {
	Feeds     []FeedResult
	WiredPath string
	ReadyPath string
}

// Run refreshes the WIRED workbook from the CSV folder and, unless
// disabled, rebuilds the READY copy. All preconditions (CSVs present,
// workbook readable) are checked before the workbook is mutated.
func (rf *Refresher) Run(opts RunOptions) (*RunSummary, error) {
	rep, err := ReportByName(opts.Report)
	if err != nil {
		return nil, err
	}
	rf.Cfg.Apply(&rep)
	if opts.Workbook != "" {
		rep.Workbook = opts.Workbook
	}
	if opts.ReadyOut != "" {
		rep.ReadyOut = opts.ReadyOut
	}
	csvDir := opts.CSVDir
	if csvDir == "" {
		csvDir = "."
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	resolved, missing := ResolveCSVs(csvDir, rep.Feeds)
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing CSV files for: %s", strings.Join(missing, ", "))
	}
	for _, feed := range rep.Feeds {
		rf.Log.Debug("resolved csv", "sheet", feed.Sheet, "file", resolved[feed.Sheet])
	}

	if _, err := os.Stat(rep.Workbook); err != nil {
		return nil, fmt.Errorf("workbook not found: %s", rep.Workbook)
	}

	f, err := excelize.OpenFile(rep.Workbook)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	summary := &RunSummary{WiredPath: rep.Workbook}
	for _, feed := range rep.Feeds {
		path := resolved[feed.Sheet]
		t, err := ReadTable(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := WriteDataSheet(f, feed.Sheet, t); err != nil {
			return nil, err
		}
		rf.Log.Info("updated data sheet", "sheet", feed.Sheet, "rows", len(t.Rows), "cols", len(t.Headers))
		summary.Feeds = append(summary.Feeds, FeedResult{
			Sheet: feed.Sheet,
			File:  filepath.Base(path),
			Rows:  len(t.Rows),
			Cols:  len(t.Headers),
		})
	}

	if err := WireFormulas(f, rep); err != nil {
		return nil, err
	}

	monthLabel := PrevMonthLabel(now)
	if rep.StampMonth {
		if err := StampReportingMonth(f, monthLabel, rep.NoStampTokens); err != nil {
			return nil, err
		}
		rf.Log.Debug("stamped reporting month", "label", monthLabel)
	}

	// Drop cached formula results so Excel recalculates on open.
	if err := f.UpdateLinkedValue(); err != nil {
		return nil, fmt.Errorf("clearing cached formula values: %w", err)
	}

	if err := f.Save(); err != nil {
		return nil, saveError(err, rep.Workbook)
	}
	rf.Log.Info("saved wired workbook", "path", rep.Workbook)

	if !opts.NoReady {
		ready, err := excelize.OpenFile(rep.Workbook)
		if err != nil {
			return nil, fmt.Errorf("reopening workbook: %w", err)
		}
		defer ready.Close()
		if err := BuildReady(ready, rep, monthLabel); err != nil {
			return nil, err
		}
		if err := ready.SaveAs(rep.ReadyOut); err != nil {
			return nil, saveError(err, rep.ReadyOut)
		}
		summary.ReadyPath = rep.ReadyOut
		rf.Log.Info("saved ready workbook", "path", rep.ReadyOut)
	}

	return summary, nil
}

// saveError adds the "close it in Excel" hint on permission failures,
// the usual reason a save fails on these shared workbooks.
func saveError(err error, path string) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("cannot write %s: close it in Excel and run again", filepath.Base(path))
	}
	return fmt.Errorf("saving %s: %w", path, err)
}
