package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	defaultDimension = 3
	maxDimension     = 10
)

var (
	colCountPattern = regexp.MustCompile(`(\d+)[\s-]*col`)
	rowCountPattern = regexp.MustCompile(`(\d+)[\s-]*row`)
	shapePattern    = regexp.MustCompile(`(\d+)\s*[x×]\s*(\d+)`)
)

// Heuristic infers a table shape from counts mentioned in prompt, such as
// "4 columns", "2-row" or "3x5", and returns an empty table of that shape
// with a header row. Unmentioned dimensions default to 3; each is capped at 10.
func Heuristic(prompt string) ([]Row, error) {
	lower := strings.ToLower(prompt)
	rows, cols := defaultDimension, defaultDimension
	found := false

	if strings.Contains(lower, "col") {
		if m := colCountPattern.FindStringSubmatch(lower); m != nil {
			n, err := dimension(m[1])
			if err != nil {
				return nil, err
			}
			cols, found = n, true
		}
	}
	if strings.Contains(lower, "row") || strings.Contains(lower, "line") {
		if m := rowCountPattern.FindStringSubmatch(lower); m != nil {
			n, err := dimension(m[1])
			if err != nil {
				return nil, err
			}
			rows, found = n, true
		}
	}
	if !found {
		if m := shapePattern.FindStringSubmatch(lower); m != nil {
			var err error
			if rows, err = dimension(m[1]); err != nil {
				return nil, err
			}
			if cols, err = dimension(m[2]); err != nil {
				return nil, err
			}
		}
	}

	return emptyTable(rows, cols), nil
}

func dimension(digits string) (int, error) {
	n, err := strconv.Atoi(digits)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return maxDimension, nil
	case err != nil:
		return 0, fmt.Errorf("%w: %q", ErrBadDimension, digits)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: zero", ErrBadDimension)
	}
	return min(n, maxDimension), nil
}

// DefaultTable returns an empty 3x3 table whose first row is the header.
func DefaultTable() []Row {
	return emptyTable(defaultDimension, defaultDimension)
}

func emptyTable(rows, cols int) []Row {
	return lo.Times(rows, func(r int) Row {
		return Row{Cells: lo.Times(cols, func(int) Cell {
			return Cell{Content: "", IsHeader: r == 0}
		})}
	})
}
