package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// TableJSON normalizes a table conversion. The model output may be fenced,
// surrounded by prose or truncated. If no valid table can be recovered, the
// shape is inferred from prompt, and failing that the default table is used.
func TableJSON(raw, prompt string) TableOutcome {
	rows, source, err := parseTable(raw)
	if err == nil {
		return TableOutcome{Rows: rows, Source: source}
	}
	return TableFromPrompt(prompt, err)
}

// TableFromPrompt builds an empty table shaped after the row and column
// counts in prompt. reason is why the model output was not used.
func TableFromPrompt(prompt string, reason error) TableOutcome {
	rows, err := Heuristic(prompt)
	if err != nil {
		return TableFallback(errors.Join(reason, err))
	}
	return TableOutcome{Rows: rows, Source: SourceHeuristic, Reason: reason}
}

// TableFallback returns the default 3x3 table.
func TableFallback(reason error) TableOutcome {
	return TableOutcome{Rows: DefaultTable(), Source: SourceDefault, Reason: reason}
}

func parseTable(raw string) ([]Row, Source, error) {
	text := cleanTableText(raw)
	source := SourceModel

	candidate := text
	if !strings.HasSuffix(candidate, "}") {
		if balanced := balanceBrackets(candidate); balanced != candidate {
			candidate = balanced
			source = SourceRepaired
		}
	}

	candidate, ok := sliceObject(candidate)
	if !ok {
		return nil, "", ErrNoJSONObject
	}

	doc, err := decodeObject(candidate)
	if err != nil {
		// The balancer knows nothing about strings, so give the untouched
		// text to the JSON repairer as well.
		start := strings.IndexByte(text, '{')
		if start < 0 {
			return nil, "", err
		}
		repaired, repairErr := jsonrepair.JSONRepair(text[start:])
		if repairErr != nil {
			return nil, "", fmt.Errorf("decoding table JSON: %w", err)
		}
		if doc, err = decodeObject(repaired); err != nil {
			return nil, "", fmt.Errorf("decoding repaired table JSON: %w", err)
		}
		source = SourceRepaired
	}

	rows, err := tableRows(doc)
	if err != nil {
		return nil, "", err
	}
	return rows, source, nil
}

// cleanTableText strips surrounding whitespace and code fences and flattens
// newlines and tabs to spaces.
func cleanTableText(raw string) string {
	text := strings.TrimSpace(raw)
	for _, fence := range []string{"```json", "```"} {
		if strings.HasPrefix(text, fence) {
			text = strings.TrimSuffix(text[len(fence):], "```")
			break
		}
	}
	text = strings.TrimSpace(text)
	return strings.NewReplacer("\n", " ", "\t", " ").Replace(text)
}

// balanceBrackets appends the closers for every '{' and '[' left open, the
// innermost first. Quotes are not tracked, so braces inside string values
// count too.
func balanceBrackets(text string) string {
	var open []byte
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '{', '[':
			open = append(open, c)
		case '}', ']':
			if n := len(open); n > 0 && open[n-1] == opener(c) {
				open = open[:n-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(text)
	for i := len(open) - 1; i >= 0; i-- {
		b.WriteByte(closer(open[i]))
	}
	return b.String()
}

func opener(c byte) byte {
	if c == '}' {
		return '{'
	}
	return '['
}

func closer(c byte) byte {
	if c == '{' {
		return '}'
	}
	return ']'
}

// sliceObject returns text from its first '{' through its last '}'.
func sliceObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func decodeObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON object")
	}
	if doc == nil {
		return nil, ErrNoJSONObject
	}
	return doc, nil
}

// tableRows validates the decoded document and converts it to rows.
func tableRows(doc map[string]any) ([]Row, error) {
	rawRows, ok := doc["tableData"].([]any)
	if !ok || len(rawRows) == 0 {
		return nil, ErrNoTableData
	}

	rows := make([]Row, 0, len(rawRows))
	width := -1
	for i, rawRow := range rawRows {
		rowObj, ok := rawRow.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row %d is not an object: %w", i, ErrInvalidCell)
		}
		rawCells, ok := rowObj["cells"].([]any)
		if !ok {
			if i == 0 {
				return nil, ErrEmptyFirstRow
			}
			return nil, fmt.Errorf("row %d has no cells list: %w", i, ErrInvalidCell)
		}
		if width < 0 {
			if len(rawCells) == 0 {
				return nil, ErrEmptyFirstRow
			}
			width = len(rawCells)
		}
		if len(rawCells) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(rawCells), width, ErrRaggedRows)
		}

		cells := make([]Cell, 0, width)
		for j, rawCell := range rawCells {
			cell, err := toCell(rawCell)
			if err != nil {
				return nil, fmt.Errorf("cell [%d][%d]: %w", i, j, err)
			}
			cells = append(cells, cell)
		}
		rows = append(rows, Row{Cells: cells})
	}
	return rows, nil
}

func toCell(v any) (Cell, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Cell{}, fmt.Errorf("not an object: %w", ErrInvalidCell)
	}
	content, hasContent := obj["content"]
	header, hasHeader := obj["isHeader"]
	if !hasContent || !hasHeader {
		return Cell{}, fmt.Errorf("missing content or isHeader: %w", ErrInvalidCell)
	}
	isHeader, ok := header.(bool)
	if !ok {
		return Cell{}, fmt.Errorf("isHeader must be boolean: %w", ErrInvalidCell)
	}
	return Cell{Content: contentString(content), IsHeader: isHeader}, nil
}

// contentString renders a decoded JSON value as cell text.
func contentString(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case nil:
		return ""
	case json.Number:
		return c.String()
	case bool:
		return strconv.FormatBool(c)
	default:
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Sprint(c)
		}
		return string(b)
	}
}

// Validate reports whether rows form a non-empty rectangular table.
func Validate(rows []Row) error {
	if len(rows) == 0 {
		return ErrNoTableData
	}
	width := len(rows[0].Cells)
	if width == 0 {
		return ErrEmptyFirstRow
	}
	for i, row := range rows {
		if len(row.Cells) != width {
			return fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row.Cells), width, ErrRaggedRows)
		}
	}
	return nil
}
