// Package normalize turns raw model output into the fixed result shapes the
// editor renders: inline LaTeX, LaTeX blocks and rectangular tables.
//
// Every function here is pure and never fails past its boundary. When the
// model output cannot be used, the result falls back to a value derived from
// the caller's input, and the Source and Reason fields record why.
package normalize

import "errors"

// Source records where a normalized result came from.
type Source string

const (
	// SourceModel means the model output was used as returned (after trimming
	// whitespace and code fences).
	SourceModel Source = "model"
	// SourceRepaired means the model output needed structural repair
	// (bracket balancing or JSON repair) before it could be used.
	SourceRepaired Source = "repaired"
	// SourceInput means the caller's own input was echoed back.
	SourceInput Source = "input"
	// SourceHeuristic means the table shape was inferred from the prompt.
	SourceHeuristic Source = "heuristic"
	// SourceDefault means a fixed template was returned.
	SourceDefault Source = "default"
)

// IsFallback reports whether the result was produced without usable model output.
func (s Source) IsFallback() bool {
	return s != SourceModel && s != SourceRepaired
}

var (
	ErrEmptyOutput     = errors.New("model output is empty")
	ErrUnchangedOutput = errors.New("model output repeats the input")
	ErrOutputTooShort  = errors.New("model output is too short")
	ErrNoJSONObject    = errors.New("no JSON object in model output")
	ErrNoTableData     = errors.New("tableData is missing or empty")
	ErrEmptyFirstRow   = errors.New("first row has no cells")
	ErrRaggedRows      = errors.New("rows have inconsistent length")
	ErrInvalidCell     = errors.New("invalid cell")
	ErrBadDimension    = errors.New("invalid table dimension")
)

// LatexOutcome is the result of normalizing inline or block LaTeX.
type LatexOutcome struct {
	Latex  string
	Source Source
	Reason error // why Source is not SourceModel; nil otherwise
}

// Cell is a single table cell.
type Cell struct {
	Content  string `json:"content"`
	IsHeader bool   `json:"isHeader"`
}

// Row is an ordered list of cells.
type Row struct {
	Cells []Cell `json:"cells"`
}

// TableOutcome is the result of normalizing a table.
type TableOutcome struct {
	Rows   []Row
	Source Source
	Reason error
}
