package internal

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PrintRunSummary renders the data sheets written during a run plus
// the saved artifact paths.
func PrintRunSummary(w io.Writer, s *RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	t.AppendHeader(table.Row{"Sheet", "CSV", "Rows", "Cols"})
	for _, feed := range s.Feeds {
		t.AppendRow(table.Row{feed.Sheet, feed.File, feed.Rows, feed.Cols})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()

	fmt.Fprintf(w, "Saved WIRED: %s\n", s.WiredPath)
	if s.ReadyPath != "" {
		fmt.Fprintf(w, "Saved READY: %s\n", s.ReadyPath)
	}
}
