package rope

// Point represents a line/column position.
// Line and Column are both 0-indexed; Column counts runes.
type Point struct {
	Line   int
	Column int
}

// TextSummary holds aggregated metrics for a text span.
type TextSummary struct {
	// Runes is the number of Unicode scalar values.
	Runes int

	// Lines is the number of newline characters.
	Lines int
}

// Add combines two summaries (monoid operation).
func (s TextSummary) Add(other TextSummary) TextSummary {
	return TextSummary{
		Runes: s.Runes + other.Runes,
		Lines: s.Lines + other.Lines,
	}
}

// ComputeSummary calculates metrics for a rune slice.
func ComputeSummary(text []rune) TextSummary {
	return TextSummary{
		Runes: len(text),
		Lines: countNewlines(text),
	}
}

func countNewlines(text []rune) int {
	n := 0
	for _, r := range text {
		if r == '\n' {
			n++
		}
	}
	return n
}

// offsetAfterNewline returns the index just past the k-th newline (1-indexed)
// in text, or len(text) if there are fewer than k.
func offsetAfterNewline(text []rune, k int) int {
	for i, r := range text {
		if r == '\n' {
			k--
			if k == 0 {
				return i + 1
			}
		}
	}
	return len(text)
}
