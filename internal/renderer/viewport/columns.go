package viewport

import "github.com/mattn/go-runewidth"

// DefaultTabWidth is the tab stop interval used by DisplayColumns when none
// is given.
const DefaultTabWidth = 4

// ColumnMapper decides how many terminal cells each rune of a line occupies.
// Buffer positions are always counted in runes; the mapper converts them to
// the cell columns the viewport scrolls in.
type ColumnMapper interface {
	// Cells returns the number of cells r occupies when it starts at cell x.
	Cells(r rune, x int) int
}

// ScalarColumns gives every rune exactly one cell.
type ScalarColumns struct{}

// Cells implements ColumnMapper.
func (ScalarColumns) Cells(rune, int) int {
	return 1
}

// DisplayColumns uses terminal display widths: wide runes take two cells,
// combining marks none, and tabs advance to the next tab stop.
type DisplayColumns struct {
	TabWidth int
}

// Cells implements ColumnMapper.
func (d DisplayColumns) Cells(r rune, x int) int {
	if r == '\t' {
		tw := d.TabWidth
		if tw <= 0 {
			tw = DefaultTabWidth
		}
		return tw - x%tw
	}
	return runewidth.RuneWidth(r)
}

// CellColumn returns the cell column at which rune column col of line
// starts. Columns past the end of line count one cell each.
func CellColumn(m ColumnMapper, line []rune, col int) int {
	x := 0
	for i := 0; i < col; i++ {
		if i < len(line) {
			x += m.Cells(line[i], x)
		} else {
			x++
		}
	}
	return x
}

// RuneColumn returns the rune column whose cells contain cell column x.
// It is the inverse of CellColumn for cells that start a rune.
func RuneColumn(m ColumnMapper, line []rune, x int) int {
	cell := 0
	for i, r := range line {
		w := m.Cells(r, cell)
		if x < cell+w {
			return i
		}
		cell += w
	}
	return len(line) + (x - cell)
}
