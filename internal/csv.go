package internal

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Table is a parsed CSV: a header row plus data rows. Rows may be
// ragged; missing trailing fields read as empty strings.
type Table struct {
	Headers []string
	Rows    [][]string
}

// HeaderIndex returns the 0-based index of the named column, or -1.
// Comparison trims surrounding whitespace.
func (t Table) HeaderIndex(name string) int {
	for i, h := range t.Headers {
		if strings.TrimSpace(h) == strings.TrimSpace(name) {
			return i
		}
	}
	return -1
}

// Get returns the value at row r under the named column, or "" when
// the column is absent or the row is too short.
func (t Table) Get(r int, name string) string {
	i := t.HeaderIndex(name)
	if i < 0 || r < 0 || r >= len(t.Rows) || i >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][i]
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable reads a CSV export. Files are expected to be UTF-8; when
// the raw bytes are not valid UTF-8 the file is re-decoded as Latin-1,
// matching how the upstream exports are produced.
func ReadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("reading csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return Table{}, fmt.Errorf("decoding csv as latin-1: %w", err)
		}
		raw = decoded
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}
	return Table{Headers: records[0], Rows: records[1:]}, nil
}

// ResolveCSVs matches each feed's glob patterns against dir, first
// pattern with a file match wins. It returns the resolved path per
// data sheet and the list of sheets with no matching CSV.
func ResolveCSVs(dir string, feeds []DataFeed) (map[string]string, []string) {
	resolved := make(map[string]string)
	var missing []string
	for _, feed := range feeds {
		path := resolveFeed(dir, feed.Patterns)
		if path == "" {
			missing = append(missing, feed.Sheet)
			continue
		}
		resolved[feed.Sheet] = path
	}
	return resolved, missing
}

func resolveFeed(dir string, patterns []string) string {
	for _, pat := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
				return m
			}
		}
	}
	return ""
}
