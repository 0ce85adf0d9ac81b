package panels

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column headings in the laboratory assignment workbook.
const (
	sampleColumn = "CUH sample number"
	panelsColumn = "Panels"
)

// LoadAssignments reads the assignment workbook. The first sheet must
// carry the sample-number and panel columns; a panel cell holds
// semicolon-separated raw panel strings, kept verbatim.
func LoadAssignments(path string) ([]Assignment, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s: sheet %s is empty", path, sheets[0])
	}

	sampleCol, panelCol := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case sampleColumn:
			sampleCol = i
		case panelsColumn:
			panelCol = i
		}
	}
	if sampleCol < 0 || panelCol < 0 {
		return nil, fmt.Errorf("workbook %s: missing the %q or %q column", path, sampleColumn, panelsColumn)
	}

	var out []Assignment
	for _, row := range rows[1:] {
		// Trailing empty cells are absent from the row slice.
		if sampleCol >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[sampleCol])
		if id == "" {
			continue
		}
		var raw []string
		if panelCol < len(row) && row[panelCol] != "" {
			raw = strings.Split(row[panelCol], ";")
		}
		out = append(out, Assignment{SampleID: id, RawPanels: raw})
	}
	return out, nil
}

// LoadDisorderReference reads a reference dump: one headerless
// tab-separated line per panel as id, name, and a bracketed disorder list
// (the quoted-literal format the dump tooling produces).
func LoadDisorderReference(path string) ([]ReferencePanel, error) {
	var out []ReferencePanel
	err := scanTSV(path, 3, func(line int, fields []string) error {
		disorders, err := parseBracketedList(fields[2])
		if err != nil {
			return err
		}
		out = append(out, ReferencePanel{ID: fields[0], Name: fields[1], Disorders: disorders})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadRescueMapping reads the manual rescue mapping: one headerless
// tab-separated line per rule as raw panel signature, curated panel name,
// and report code digits. The code field may be empty.
func LoadRescueMapping(path string) ([]RescueRule, error) {
	var out []RescueRule
	err := scanTSV(path, 2, func(line int, fields []string) error {
		rule := RescueRule{RawPanel: fields[0], NewPanel: fields[1]}
		if len(fields) > 2 {
			rule.RCode = strings.TrimSpace(fields[2])
		}
		out = append(out, rule)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// scanTSV splits each non-blank line on tabs and hands it to fn. The
// disorder lists embed quotes and commas, so this never goes through a
// quoting-aware reader.
func scanTSV(path string, minFields int, fn func(line int, fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < minFields {
			return fmt.Errorf("%s:%d: expected at least %d tab-separated fields, got %d", path, line, minFields, len(fields))
		}
		if err := fn(line, fields); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// parseBracketedList parses a bracketed list of quoted strings, e.g.
// ['R207', "Familial cancer"]. Both quote styles appear in the dumps, and
// quotes inside an entry arrive backslash-escaped.
func parseBracketedList(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "[]" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("malformed disorder list %q", raw)
	}
	s = s[1 : len(s)-1]

	var out []string
	i := 0
	for i < len(s) {
		switch c := s[i]; c {
		case ' ', '\t', ',':
			i++
		case '\'', '"':
			quote := c
			i++
			var b strings.Builder
			closed := false
			for i < len(s) {
				ch := s[i]
				if ch == '\\' && i+1 < len(s) {
					b.WriteByte(s[i+1])
					i += 2
					continue
				}
				if ch == quote {
					closed = true
					i++
					break
				}
				b.WriteByte(ch)
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated entry in disorder list %q", raw)
			}
			out = append(out, b.String())
		default:
			return nil, fmt.Errorf("unexpected character %q in disorder list %q", c, raw)
		}
	}
	return out, nil
}
