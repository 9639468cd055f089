package normalize

import (
	"strings"
	"unicode/utf8"
)

const minBlockLength = 3

// Latex normalizes an inline LaTeX conversion. Empty output, or output that
// merely repeats the input, falls back to the input itself.
func Latex(raw, originalInput string) LatexOutcome {
	latex := strings.TrimSpace(raw)
	switch latex {
	case "":
		return LatexFallback(originalInput, ErrEmptyOutput)
	case originalInput:
		return LatexFallback(originalInput, ErrUnchangedOutput)
	}
	return LatexOutcome{Latex: latex, Source: SourceModel}
}

// LatexFallback echoes the input as the LaTeX result.
func LatexFallback(originalInput string, reason error) LatexOutcome {
	return LatexOutcome{Latex: originalInput, Source: SourceInput, Reason: reason}
}

// LatexBlock normalizes a multi-line LaTeX conversion. Markdown fences are
// removed; output shorter than three characters falls back to a \text{}
// template around englishText.
func LatexBlock(raw, englishText string) LatexOutcome {
	latex := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(latex, "```latex"):
		latex = strings.ReplaceAll(latex, "```latex", "")
		latex = strings.TrimSpace(strings.ReplaceAll(latex, "```", ""))
	case strings.HasPrefix(latex, "```"):
		latex = strings.TrimSpace(strings.ReplaceAll(latex, "```", ""))
	}

	if latex == "" {
		return LatexBlockFallback(englishText, ErrEmptyOutput)
	}
	if utf8.RuneCountInString(latex) < minBlockLength {
		return LatexBlockFallback(englishText, ErrOutputTooShort)
	}
	return LatexOutcome{Latex: latex, Source: SourceModel}
}

// LatexBlockFallback wraps englishText in \text{}.
func LatexBlockFallback(englishText string, reason error) LatexOutcome {
	return LatexOutcome{Latex: `\text{` + englishText + `}`, Source: SourceDefault, Reason: reason}
}
