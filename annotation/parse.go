package annotation

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/roaldarbol/boris-clip/diag"
)

// headerTokens mark the real header row in a BORIS export. BORIS sometimes
// prepends free-form metadata lines before the column header.
var headerTokens = []string{"time", "subject", "behavior", "behaviour", "start (s)"}

// ParseFile parses a BORIS annotation file in any supported format.
//
// The format is detected automatically: a .boris extension selects the JSON
// project parser, otherwise the file is read as a delimited table and the
// column set decides between the tabular and aggregated parsers.
//
// A project file may contain several observations; each one yields an
// independent ParsedAnnotations. CSV exports always yield exactly one.
func ParseFile(path string, r diag.Reporter) ([]ParsedAnnotations, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("BORIS file not found: %s", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".boris") {
		return parseProject(path, r)
	}

	tbl, err := readTable(path)
	if err != nil {
		return nil, err
	}

	var ann ParsedAnnotations
	switch detectTableFormat(tbl) {
	case FormatAggregated:
		ann, err = parseAggregated(tbl, r)
	case FormatTabular:
		ann, err = parseTabular(tbl, r)
	default:
		return nil, fmt.Errorf(
			"could not detect BORIS format of %s: expected a tabular events export "+
				"(with 'Time' and 'Status' columns) or an aggregated events export "+
				"(with 'Start (s)' and 'Stop (s)' columns)", filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}
	return []ParsedAnnotations{ann}, nil
}

// table is a delimited document after header detection: one header row plus
// data rows. Rows may be ragged; lookups go through the column index.
type table struct {
	header []string
	rows   [][]string
}

// readTable reads a BORIS CSV/TSV export, skipping metadata lines before the
// header and tolerating a UTF-8 BOM. The delimiter is sniffed from the header
// line: tab when present, comma otherwise.
func readTable(path string) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	headerIdx := -1
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, tok := range headerTokens {
			if strings.Contains(lower, tok) {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("no header row found in %s", filepath.Base(path))
	}

	delim := ','
	if strings.ContainsRune(lines[headerIdx], '\t') {
		delim = '\t'
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read %s as CSV: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty BORIS export: %s", filepath.Base(path))
	}

	return &table{header: records[0], rows: records[1:]}, nil
}

// detectTableFormat inspects the column set case-insensitively.
func detectTableFormat(tbl *table) SourceFormat {
	cols := make(map[string]bool, len(tbl.header))
	for _, c := range tbl.header {
		cols[strings.ToLower(strings.TrimSpace(c))] = true
	}
	switch {
	case cols["start (s)"] && cols["stop (s)"]:
		return FormatAggregated
	case cols["time"] && (cols["status"] || cols["behavior type"] || cols["behaviour type"]):
		return FormatTabular
	default:
		return ""
	}
}

// findCol returns the index of the first header matching any candidate,
// case-insensitively, or -1.
func (t *table) findCol(candidates ...string) int {
	for _, candidate := range candidates {
		for i, c := range t.header {
			if strings.EqualFold(strings.TrimSpace(c), candidate) {
				return i
			}
		}
	}
	return -1
}

// requireCol is findCol for mandatory columns; absence is a structural error.
func (t *table) requireCol(label string, candidates ...string) (int, error) {
	i := t.findCol(candidates...)
	if i < 0 {
		return 0, fmt.Errorf("could not find required column %q in BORIS file (tried %s)",
			label, strings.Join(candidates, ", "))
	}
	return i, nil
}

// cell returns the trimmed value of column i in row, or "" when the row is
// too short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseFloat parses a numeric cell. The second return is false for missing
// or unparseable values.
func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// firstMediaName scans a media column and returns the basename of the first
// non-empty value, warning when distinct values disagree.
func (t *table) firstMediaName(col int, r diag.Reporter) string {
	if col < 0 {
		return ""
	}
	first := ""
	for _, row := range t.rows {
		v := cell(row, col)
		if v == "" {
			continue
		}
		if first == "" {
			first = v
		} else if v != first {
			r.Warnf("multiple media files referenced in BORIS export (%q, %q, ...); "+
				"validation will check against the first one", first, v)
			break
		}
	}
	if first == "" {
		return ""
	}
	return filepath.Base(first)
}

// firstNumeric scans a numeric metadata column (FPS, total length) and
// returns the first parseable value, warning when distinct values disagree.
func (t *table) firstNumeric(col int, label string, r diag.Reporter) float64 {
	if col < 0 {
		return 0
	}
	first, found := 0.0, false
	for _, row := range t.rows {
		v, ok := parseFloat(cell(row, col))
		if !ok {
			continue
		}
		if !found {
			first, found = v, true
		} else if v != first {
			r.Warnf("multiple %s values in BORIS export (%g, %g, ...); using the first", label, first, v)
			break
		}
	}
	return first
}
