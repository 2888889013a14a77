package engine

import (
	"errors"
	"testing"

	"github.com/dshills/kilt/internal/command"
	"github.com/dshills/kilt/internal/engine/buffer"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func apply(t *testing.T, e *Engine, cmds ...command.Command) Effect {
	t.Helper()
	var eff Effect
	for _, c := range cmds {
		var err error
		eff, err = e.Apply(c)
		if err != nil {
			t.Fatalf("Apply(%s): %v", c, err)
		}
	}
	return eff
}

func TestNew(t *testing.T) {
	e := newEngine(t)
	if e.Text() != "" {
		t.Errorf("Text() = %q, want empty", e.Text())
	}
	if e.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", e.LineCount())
	}
	if e.Modified() {
		t.Error("new engine should be unmodified")
	}

	if _, err := New(WithBackend("gap")); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestApplyInsert(t *testing.T) {
	for _, backend := range []buffer.Backend{buffer.BackendLines, buffer.BackendRope} {
		t.Run(string(backend), func(t *testing.T) {
			e := newEngine(t, WithContent("ab\ncd"), WithBackend(backend))

			apply(t, e, command.New(command.MoveRight))
			eff := apply(t, e, command.InsertText("X"))
			if eff != EffectEdit {
				t.Errorf("effect = %s, want edit", eff)
			}
			if e.Text() != "aXb\ncd" {
				t.Errorf("Text() = %q, want %q", e.Text(), "aXb\ncd")
			}
			if e.Position() != (Position{Line: 0, Column: 2}) {
				t.Errorf("Position() = %s, want (0:2)", e.Position())
			}
			if !e.Modified() {
				t.Error("engine should be modified after insert")
			}
		})
	}
}

func TestApplyEffects(t *testing.T) {
	e := newEngine(t, WithContent("ab"))

	tests := []struct {
		cmd  command.Command
		want Effect
	}{
		{command.New(command.MoveLeft), EffectNone},
		{command.New(command.MoveRight), EffectCursor},
		{command.New(command.SelectLeft), EffectCursor},
		{command.New(command.Save), EffectSave},
		{command.New(command.Quit), EffectQuit},
		{command.New(command.Redraw), EffectRedraw},
		{command.New(command.None), EffectNone},
		{command.InsertText(""), EffectNone},
	}
	for _, tt := range tests {
		got, err := e.Apply(tt.cmd)
		if err != nil {
			t.Fatalf("Apply(%s): %v", tt.cmd, err)
		}
		if got != tt.want {
			t.Errorf("Apply(%s) = %s, want %s", tt.cmd, got, tt.want)
		}
	}
}

func TestApplyEditing(t *testing.T) {
	e := newEngine(t, WithContent("hello\nworld"))

	apply(t, e,
		command.New(command.MoveDown),
		command.New(command.MoveLineStart),
		command.New(command.DeleteBefore),
	)
	if e.Text() != "helloworld" {
		t.Fatalf("Backspace at line start: %q", e.Text())
	}

	apply(t, e, command.New(command.InsertNewline))
	if e.Text() != "hello\nworld" {
		t.Fatalf("Enter: %q", e.Text())
	}

	apply(t, e, command.New(command.DeleteAfter))
	if e.Text() != "hello\norld" {
		t.Errorf("Delete: %q", e.Text())
	}

	// Delete at the end of the document is a no-op that reports no edit.
	apply(t, e, command.New(command.MoveBufferEnd))
	if eff := apply(t, e, command.New(command.DeleteAfter)); eff == EffectEdit {
		t.Error("delete at end of document reported an edit")
	}
}

func TestApplySelection(t *testing.T) {
	e := newEngine(t, WithContent("hello\nworld"))
	apply(t, e,
		command.New(command.MoveRight),
		command.New(command.MoveRight),
		command.New(command.SelectDown),
	)
	if got := e.SelectedText(); got != "llo\nwo" {
		t.Fatalf("SelectedText() = %q", got)
	}
	apply(t, e, command.New(command.DeleteBefore))
	if e.Text() != "herld" {
		t.Errorf("Text() = %q, want %q", e.Text(), "herld")
	}

	apply(t, e, command.New(command.SelectAll))
	if got := e.SelectedText(); got != "herld" {
		t.Errorf("SelectAll selected %q", got)
	}
}

func TestInsertTab(t *testing.T) {
	e := newEngine(t)
	apply(t, e, command.New(command.InsertTab))
	if e.Text() != "\t" {
		t.Errorf("Text() = %q, want tab", e.Text())
	}

	e = newEngine(t, WithExpandTabs(true), WithTabWidth(2))
	apply(t, e, command.New(command.InsertTab))
	if e.Text() != "  " {
		t.Errorf("Text() = %q, want two spaces", e.Text())
	}
}

func TestReadOnly(t *testing.T) {
	e := newEngine(t, WithContent("abc"), WithReadOnly())

	if _, err := e.Apply(command.InsertText("x")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("insert error = %v, want ErrReadOnly", err)
	}
	if eff := apply(t, e, command.New(command.MoveRight)); eff != EffectCursor {
		t.Errorf("movement in read-only = %s, want cursor", eff)
	}
	if e.Text() != "abc" {
		t.Errorf("read-only text changed to %q", e.Text())
	}
}

func TestMarkSavedAndReset(t *testing.T) {
	e := newEngine(t, WithContent("one\ntwo\nthree"))
	apply(t, e, command.New(command.MoveBufferEnd), command.InsertText("!"))
	if !e.Modified() {
		t.Fatal("expected modified")
	}
	e.MarkSaved()
	if e.Modified() {
		t.Error("MarkSaved should clear modified")
	}

	if err := e.Reset("x"); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "x" || e.Modified() {
		t.Errorf("after Reset: %q modified=%v", e.Text(), e.Modified())
	}
	if e.Position() != (Position{Line: 0, Column: 1}) {
		t.Errorf("cursor not clamped after Reset: %s", e.Position())
	}
}

func TestUnknownCommand(t *testing.T) {
	e := newEngine(t)
	if _, err := e.Apply(command.Command{Kind: 200}); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("error = %v, want ErrUnknownCommand", err)
	}
}
