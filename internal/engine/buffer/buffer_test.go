package buffer

import (
	"errors"
	"strings"
	"testing"
	"testing/quick"
	"unicode/utf8"
)

var stores = []struct {
	name string
	new  func(string) Store
}{
	{"lines", func(s string) Store { return NewBufferFromString(s) }},
	{"rope", func(s string) Store { return NewRopeBufferFromString(s) }},
}

func forEachStore(t *testing.T, fn func(t *testing.T, newStore func(string) Store)) {
	t.Helper()
	for _, s := range stores {
		t.Run(s.name, func(t *testing.T) {
			fn(t, s.new)
		})
	}
}

func TestNewBuffer(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func(string) Store) {
		b := newStore("")
		if b.LineCount() != 1 {
			t.Errorf("LineCount() = %d, want 1", b.LineCount())
		}
		if b.Len() != 0 {
			t.Errorf("Len() = %d, want 0", b.Len())
		}
		if n, _ := b.LineLen(0); n != 0 {
			t.Errorf("LineLen(0) = %d, want 0", n)
		}
	})
}

func TestLineQueries(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func(string) Store) {
		b := newStore("héllo\n\nwörld 世界")

		if b.LineCount() != 3 {
			t.Fatalf("LineCount() = %d, want 3", b.LineCount())
		}
		wants := []string{"héllo", "", "wörld 世界"}
		for i, want := range wants {
			got, err := b.Line(i)
			if err != nil {
				t.Fatalf("Line(%d): %v", i, err)
			}
			if got != want {
				t.Errorf("Line(%d) = %q, want %q", i, got, want)
			}
			n, _ := b.LineLen(i)
			if n != utf8.RuneCountInString(want) {
				t.Errorf("LineLen(%d) = %d, want %d", i, n, utf8.RuneCountInString(want))
			}
			runes, _ := b.LineRunes(i)
			if string(runes) != want {
				t.Errorf("LineRunes(%d) = %q, want %q", i, string(runes), want)
			}
		}

		for _, bad := range []int{-1, 3} {
			if _, err := b.Line(bad); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Line(%d) error = %v, want ErrOutOfRange", bad, err)
			}
			if _, err := b.LineLen(bad); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("LineLen(%d) error = %v, want ErrOutOfRange", bad, err)
			}
		}
	})
}

func TestLineRunesIsCopy(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func(string) Store) {
		b := newStore("abc")
		runes, _ := b.LineRunes(0)
		runes[0] = 'z'
		if got, _ := b.Line(0); got != "abc" {
			t.Errorf("mutating LineRunes result changed buffer to %q", got)
		}
	})
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		pos     Position
		text    string
		want    string
		wantEnd Position
	}{
		{"scenario insert mid line", "ab\ncd", Position{0, 1}, "X", "aXb\ncd", Position{0, 2}},
		{"start of document", "abc", Position{0, 0}, "X", "Xabc", Position{0, 1}},
		{"end of line", "abc\nd", Position{0, 3}, "!", "abc!\nd", Position{0, 4}},
		{"end of document", "ab\ncd", Position{1, 2}, "ef", "ab\ncdef", Position{1, 4}},
		{"split line", "abcd", Position{0, 2}, "\n", "ab\ncd", Position{1, 0}},
		{"multiple lines", "ad", Position{0, 1}, "b\nc\n", "ab\nc\nd", Position{2, 0}},
		{"multi-byte", "世界", Position{0, 1}, "の", "世の界", Position{0, 2}},
		{"crlf normalized", "ab", Position{0, 1}, "x\r\ny\rz", "ax\ny\nzb", Position{2, 1}},
		{"empty text", "ab", Position{0, 1}, "", "ab", Position{0, 1}},
		{"into empty", "", Position{0, 0}, "hi\nthere", "hi\nthere", Position{1, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forEachStore(t, func(t *testing.T, newStore func(string) Store) {
				b := newStore(tt.initial)
				end, err := b.Insert(tt.pos, tt.text)
				if err != nil {
					t.Fatalf("Insert: %v", err)
				}
				if got := b.Text(); got != tt.want {
					t.Errorf("Text() = %q, want %q", got, tt.want)
				}
				if end != tt.wantEnd {
					t.Errorf("end = %s, want %s", end, tt.wantEnd)
				}
				if b.Len() != utf8.RuneCountInString(tt.want) {
					t.Errorf("Len() = %d, want %d", b.Len(), utf8.RuneCountInString(tt.want))
				}
			})
		})
	}
}

func TestInsertOutOfRange(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func(string) Store) {
		b := newStore("ab\ncd")
		rev := b.Revision()
		for _, pos := range []Position{{-1, 0}, {2, 0}, {0, 3}, {1, -1}} {
			if _, err := b.Insert(pos, "x"); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Insert(%s) error = %v, want ErrOutOfRange", pos, err)
			}
		}
		if b.Text() != "ab\ncd" {
			t.Errorf("failed inserts changed text to %q", b.Text())
		}
		if b.Revision() != rev {
			t.Errorf("failed inserts bumped revision")
		}
	})
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name        string
		initial     string
		start, end  Position
		want        string
		wantRemoved string
	}{
		{"scenario across lines", "hello\nworld", Position{0, 2}, Position{1, 2}, "herld", "llo\nwo"},
		{"same line", "hello", Position{0, 1}, Position{0, 3}, "hlo", "el"},
		{"join lines", "ab\ncd", Position{0, 2}, Position{1, 0}, "abcd", "\n"},
		{"whole document", "a\nb\nc", Position{0, 0}, Position{2, 1}, "", "a\nb\nc"},
		{"spans middle lines", "a\nb\nc\nd", Position{0, 1}, Position{3, 0}, "ad", "\nb\nc\n"},
		{"empty range", "abc", Position{0, 1}, Position{0, 1}, "abc", ""},
		{"multi-byte", "a世界b", Position{0, 1}, Position{0, 3}, "ab", "世界"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forEachStore(t, func(t *testing.T, newStore func(string) Store) {
				b := newStore(tt.initial)
				removed, err := b.Delete(tt.start, tt.end)
				if err != nil {
					t.Fatalf("Delete: %v", err)
				}
				if got := b.Text(); got != tt.want {
					t.Errorf("Text() = %q, want %q", got, tt.want)
				}
				if removed != tt.wantRemoved {
					t.Errorf("removed = %q, want %q", removed, tt.wantRemoved)
				}
			})
		})
	}
}

func TestSlice(t *testing.T) {
	tests := []struct {
		name       string
		start, end Position
		want       string
	}{
		{"same line", Position{0, 1}, Position{0, 3}, "el"},
		{"across lines", Position{0, 2}, Position{2, 1}, "llo\nwörld\nx"},
		{"line break only", Position{0, 5}, Position{1, 0}, "\n"},
		{"multi-byte", Position{1, 1}, Position{1, 2}, "ö"},
		{"empty", Position{1, 3}, Position{1, 3}, ""},
		{"whole document", Position{0, 0}, Position{2, 2}, "hello\nwörld\nxy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forEachStore(t, func(t *testing.T, newStore func(string) Store) {
				b := newStore("hello\nwörld\nxy")
				rev := b.Revision()
				got, err := b.Slice(tt.start, tt.end)
				if err != nil {
					t.Fatalf("Slice: %v", err)
				}
				if got != tt.want {
					t.Errorf("Slice(%s, %s) = %q, want %q", tt.start, tt.end, got, tt.want)
				}
				if b.Revision() != rev || b.Text() != "hello\nwörld\nxy" {
					t.Error("Slice modified the store")
				}
			})
		})
	}

	forEachStore(t, func(t *testing.T, newStore func(string) Store) {
		b := newStore("hello\nworld")
		if _, err := b.Slice(Position{1, 0}, Position{0, 2}); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("inverted range error = %v, want ErrInvalidRange", err)
		}
		if _, err := b.Slice(Position{0, 0}, Position{0, 6}); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("out of range error = %v, want ErrOutOfRange", err)
		}
	})
}

func TestDeleteErrors(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func(string) Store) {
		b := newStore("hello\nworld")

		if _, err := b.Delete(Position{1, 2}, Position{0, 2}); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("inverted range error = %v, want ErrInvalidRange", err)
		}
		if _, err := b.Delete(Position{0, 0}, Position{5, 0}); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("out of range end error = %v, want ErrOutOfRange", err)
		}
		if _, err := b.Delete(Position{0, 9}, Position{1, 0}); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("out of range start error = %v, want ErrOutOfRange", err)
		}
		if b.Text() != "hello\nworld" {
			t.Errorf("failed deletes changed text to %q", b.Text())
		}
	})
}

func TestRevision(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func(string) Store) {
		b := newStore("abc")
		r0 := b.Revision()
		b.Insert(Position{0, 0}, "x")
		r1 := b.Revision()
		b.Delete(Position{0, 0}, Position{0, 1})
		r2 := b.Revision()
		if !(r0 < r1 && r1 < r2) {
			t.Errorf("revisions not increasing: %d %d %d", r0, r1, r2)
		}
		b.Delete(Position{0, 1}, Position{0, 1})
		if b.Revision() != r2 {
			t.Errorf("empty delete bumped revision")
		}
	})
}

func TestOffsetConversion(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func(string) Store) {
		b := newStore("ab\n世界\n\nc")

		tests := []struct {
			pos    Position
			offset int
		}{
			{Position{0, 0}, 0},
			{Position{0, 2}, 2},
			{Position{1, 0}, 3},
			{Position{1, 2}, 5},
			{Position{2, 0}, 6},
			{Position{3, 0}, 7},
			{Position{3, 1}, 8},
		}
		for _, tt := range tests {
			off, err := b.PositionToOffset(tt.pos)
			if err != nil || off != tt.offset {
				t.Errorf("PositionToOffset(%s) = %d, %v; want %d", tt.pos, off, err, tt.offset)
			}
			pos, err := b.OffsetToPosition(tt.offset)
			if err != nil || pos != tt.pos {
				t.Errorf("OffsetToPosition(%d) = %s, %v; want %s", tt.offset, pos, err, tt.pos)
			}
		}

		if _, err := b.OffsetToPosition(-1); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("OffsetToPosition(-1) error = %v", err)
		}
		if _, err := b.OffsetToPosition(9); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("OffsetToPosition(9) error = %v", err)
		}
	})
}

// checkRoundTrip verifies offsets and positions are mutual inverses at
// every offset of b.
func checkRoundTrip(t *testing.T, b Store) {
	t.Helper()
	for off := 0; off <= b.Len(); off++ {
		pos, err := b.OffsetToPosition(off)
		if err != nil {
			t.Fatalf("OffsetToPosition(%d): %v", off, err)
		}
		back, err := b.PositionToOffset(pos)
		if err != nil {
			t.Fatalf("PositionToOffset(%s): %v", pos, err)
		}
		if back != off {
			t.Fatalf("round trip %d -> %s -> %d", off, pos, back)
		}
	}
}

func TestRoundTripAfterEdits(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore func(string) Store) {
		b := newStore("one\ntwo\nthree 世界\n")
		checkRoundTrip(t, b)

		// Edits that net to no change.
		end, _ := b.Insert(Position{1, 1}, "inserted\ntext\n")
		b.Delete(Position{1, 1}, end)
		end, _ = b.Insert(Position{3, 0}, "tail")
		b.Delete(Position{3, 0}, end)
		removed, _ := b.Delete(Position{0, 2}, Position{2, 1})
		b.Insert(Position{0, 2}, removed)

		if got := b.Text(); got != "one\ntwo\nthree 世界\n" {
			t.Fatalf("net-zero edits changed text to %q", got)
		}
		checkRoundTrip(t, b)
	})
}

func TestRoundTripProperty(t *testing.T) {
	for _, s := range stores {
		t.Run(s.name, func(t *testing.T) {
			f := func(base, ins string, at uint16) bool {
				if !utf8.ValidString(base) || !utf8.ValidString(ins) {
					return true
				}
				b := s.new(base)
				offset := int(at) % (b.Len() + 1)
				pos, err := b.OffsetToPosition(offset)
				if err != nil {
					return false
				}
				before := b.Text()
				end, err := b.Insert(pos, ins)
				if err != nil {
					return false
				}
				if _, err := b.Delete(pos, end); err != nil {
					return false
				}
				if b.Text() != before {
					return false
				}
				for off := 0; off <= b.Len(); off++ {
					p, err := b.OffsetToPosition(off)
					if err != nil {
						return false
					}
					back, err := b.PositionToOffset(p)
					if err != nil || back != off {
						return false
					}
				}
				return true
			}
			if err := quick.Check(f, nil); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestStoresAgree(t *testing.T) {
	text := strings.Repeat("the quick brown fox\njumps over 世界\n\n", 40)
	lines := NewBufferFromString(text)
	rope := NewRopeBufferFromString(text)

	edits := []struct {
		insert bool
		a, b   Position
		text   string
	}{
		{insert: true, a: Position{4, 3}, text: "abc\ndef"},
		{a: Position{2, 0}, b: Position{7, 4}},
		{insert: true, a: Position{0, 0}, text: "\n\n"},
		{a: Position{10, 2}, b: Position{10, 6}},
		{insert: true, a: Position{31, 1}, text: "世"},
	}
	for i, e := range edits {
		if e.insert {
			p1, err1 := lines.Insert(e.a, e.text)
			p2, err2 := rope.Insert(e.a, e.text)
			if err1 != nil || err2 != nil || p1 != p2 {
				t.Fatalf("edit %d: insert results differ: %s %v / %s %v", i, p1, err1, p2, err2)
			}
		} else {
			s1, err1 := lines.Delete(e.a, e.b)
			s2, err2 := rope.Delete(e.a, e.b)
			if err1 != nil || err2 != nil || s1 != s2 {
				t.Fatalf("edit %d: delete results differ: %q %v / %q %v", i, s1, err1, s2, err2)
			}
		}
		if lines.Text() != rope.Text() {
			t.Fatalf("edit %d: texts differ", i)
		}
		if lines.LineCount() != rope.LineCount() {
			t.Fatalf("edit %d: line counts differ", i)
		}
	}
}

func TestNewBackend(t *testing.T) {
	for _, backend := range []Backend{"", BackendLines, BackendRope} {
		s, err := New(backend, "a\nb")
		if err != nil {
			t.Fatalf("New(%q): %v", backend, err)
		}
		if s.Text() != "a\nb" {
			t.Errorf("New(%q) text = %q", backend, s.Text())
		}
	}
	if _, err := New("gap", ""); err == nil {
		t.Error("New(gap) should fail")
	}
	if b, err := ParseBackend("rope"); err != nil || b != BackendRope {
		t.Errorf("ParseBackend(rope) = %q, %v", b, err)
	}
}

func BenchmarkTypingLargeFile(b *testing.B) {
	text := strings.Repeat("some moderately long line of source text\n", 100000)
	for _, s := range stores {
		b.Run(s.name, func(b *testing.B) {
			buf := s.new(text)
			pos := Position{Line: 50000, Column: 10}
			b.ResetTimer()
			for range b.N {
				end, _ := buf.Insert(pos, "x")
				pos = end
				buf.PositionToOffset(pos)
			}
		})
	}
}

func TestNewRangeNormalizes(t *testing.T) {
	a := Position{Line: 2, Column: 1}
	b := Position{Line: 0, Column: 5}
	want := Range{Start: b, End: a}
	if got := NewRange(a, b); got != want {
		t.Errorf("NewRange(a, b) = %s, want %s", got, want)
	}
	if got := NewRange(b, a); got != want {
		t.Errorf("NewRange(b, a) = %s, want %s", got, want)
	}

	sameLine := NewRange(Position{Line: 1, Column: 4}, Position{Line: 1, Column: 2})
	if sameLine.Start.Column != 2 || sameLine.End.Column != 4 || !sameLine.IsSingleLine() {
		t.Errorf("same-line range = %s", sameLine)
	}
	if r := NewRange(a, a); !r.IsEmpty() {
		t.Errorf("NewRange(a, a) = %s, want empty", r)
	}
}
