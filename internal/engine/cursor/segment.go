package cursor

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// graphemeStarts returns the rune columns at which grapheme clusters of line
// begin, followed by len(line).
func graphemeStarts(line []rune) []int {
	starts := make([]int, 0, len(line)+1)
	col := 0
	g := uniseg.NewGraphemes(string(line))
	for g.Next() {
		starts = append(starts, col)
		col += len(g.Runes())
	}
	return append(starts, col)
}

// prevGrapheme returns the start of the cluster before col.
func prevGrapheme(line []rune, col int) int {
	prev := 0
	for _, s := range graphemeStarts(line) {
		if s >= col {
			break
		}
		prev = s
	}
	return prev
}

// nextGrapheme returns the end of the cluster containing col.
func nextGrapheme(line []rune, col int) int {
	for _, s := range graphemeStarts(line) {
		if s > col {
			return s
		}
	}
	return len(line)
}

// wordStarts returns the rune columns at which non-blank word segments of
// line begin, using Unicode word boundaries.
func wordStarts(line []rune) []int {
	var starts []int
	rest := string(line)
	col := 0
	state := -1
	var word string
	for rest != "" {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if !isBlank(word) {
			starts = append(starts, col)
		}
		col += utf8.RuneCountInString(word)
	}
	return starts
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// prevWord returns the start of the word before col, or -1.
func prevWord(line []rune, col int) int {
	found := -1
	for _, s := range wordStarts(line) {
		if s >= col {
			break
		}
		found = s
	}
	return found
}

// nextWord returns the start of the first word after col, or -1.
func nextWord(line []rune, col int) int {
	for _, s := range wordStarts(line) {
		if s > col {
			return s
		}
	}
	return -1
}
