package backend

import (
	"errors"
	"testing"

	"github.com/dshills/kilt/internal/renderer"
	"github.com/dshills/kilt/internal/renderer/core"
)

func TestRecorderApply(t *testing.T) {
	r := NewRecorder(10, 3)
	if err := r.Apply(nil); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("Apply before Start = %v, want ErrNotStarted", err)
	}
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	ops := []renderer.Op{
		renderer.ClearOp(),
		renderer.CellOp(0, 0, plain('h')),
		renderer.CellOp(0, 1, plain('i')),
		renderer.CellOp(1, 0, core.NewStyledCell('中', core.DefaultStyle())),
		renderer.CellOp(5, 5, plain('x')),
		renderer.CursorOp(0, 2),
	}
	if err := r.Apply(ops); err != nil {
		t.Fatal(err)
	}

	if got := r.Line(0); got != "hi        " {
		t.Errorf("Line(0) = %q", got)
	}
	if got := r.Line(1); got != "中        " {
		t.Errorf("Line(1) = %q", got)
	}
	if !r.Cell(1, 1).IsContinuation() {
		t.Error("wide cell should cover the next column")
	}
	if r.Cursor() != (core.ScreenPos{Row: 0, Col: 2}) {
		t.Errorf("Cursor() = %s", r.Cursor())
	}
	if got := r.Cell(9, 9); got != core.EmptyCell() {
		t.Errorf("out of bounds Cell = %+v", got)
	}
	if len(r.Batches()) != 1 || len(r.LastBatch()) != len(ops) {
		t.Errorf("batches not recorded: %d", len(r.Batches()))
	}

	if err := r.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := r.Apply(ops); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Apply after Stop = %v, want ErrNotStarted", err)
	}
}

func TestRecorderInputAndResize(t *testing.T) {
	r := NewRecorder(4, 2)
	r.SendString("ab")
	if got := string(<-r.Input()); got != "ab" {
		t.Errorf("Input() = %q", got)
	}

	r.Resize(6, 3)
	r.Resize(7, 3)
	select {
	case <-r.Resized():
	default:
		t.Fatal("resize not signalled")
	}
	select {
	case <-r.Resized():
		t.Error("resizes should coalesce")
	default:
	}
	if w, h := r.Size(); w != 7 || h != 3 {
		t.Errorf("Size() = %d,%d", w, h)
	}
	if got := r.Screen(); got != "       \n       \n       " {
		t.Errorf("Screen() = %q", got)
	}
}

func TestRecorderWithDiffer(t *testing.T) {
	r := NewRecorder(3, 1)
	_ = r.Start()
	d := renderer.NewDiffer()

	f := renderer.NewFrame(3, 1)
	f.SetCell(0, 0, plain('a'))
	_ = r.Apply(d.Render(f, core.ScreenPos{Col: 1}))

	f = f.Clone()
	f.SetCell(0, 2, plain('c'))
	ops := d.Render(f, core.ScreenPos{Col: 2})
	_ = r.Apply(ops)

	if got := r.Line(0); got != "a c" {
		t.Errorf("Line(0) = %q", got)
	}
	if renderer.CountCells(ops) != 1 {
		t.Errorf("second render wrote %d cells", renderer.CountCells(ops))
	}
}
