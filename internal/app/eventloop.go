package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/kilt/internal/command"
	"github.com/dshills/kilt/internal/engine"
	"github.com/dshills/kilt/internal/filewatch"
	"github.com/dshills/kilt/internal/renderer"
	"github.com/dshills/kilt/internal/renderer/statusline"
	"github.com/dshills/kilt/internal/renderer/viewport"
)

// Run starts the backend and processes input until the user quits, ctx is
// cancelled or the terminal goes away. A user quit returns ErrQuit; a
// cancelled context returns ctx.Err(). The backend is stopped on return.
func (a *App) Run(ctx context.Context) (err error) {
	if a.running {
		return ErrAlreadyRunning
	}
	a.running = true
	defer func() { a.running = false }()

	if err := a.backend.Start(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer func() {
		if stopErr := a.backend.Stop(); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
		if closeErr := a.Close(); closeErr != nil {
			a.logger.Warn("close watcher: %v", closeErr)
		}
	}()

	a.Resize()
	if err := a.Render(); err != nil {
		return err
	}

	escape := time.NewTimer(time.Hour)
	escape.Stop()
	defer escape.Stop()
	var escapeC <-chan time.Time

	var (
		events  <-chan filewatch.Event
		watchEr <-chan error
	)
	if a.watcher != nil {
		events, watchEr = a.watcher.Events(), a.watcher.Errors()
	}
	inputC := a.backend.Input()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("context done: %v", ctx.Err())
			return ctx.Err()

		case data, ok := <-inputC:
			if !ok {
				a.logger.Info("terminal input closed")
				return ErrQuit
			}
			if err := a.HandleInput(data); err != nil {
				return err
			}

		case <-escapeC:
			escapeC = nil
			if err := a.FlushInput(); err != nil {
				return err
			}

		case <-a.backend.Resized():
			a.Resize()

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			a.HandleFileEvent(ev)

		case werr, ok := <-watchEr:
			if !ok {
				watchEr = nil
				continue
			}
			a.logger.Warn("file watch: %v", werr)
			continue
		}

		// The timer only runs while a partial escape sequence waits.
		if a.dispatcher.Pending() {
			if escapeC == nil {
				escape.Reset(a.cfg.Input.EscapeTimeout.Duration)
				escapeC = escape.C
			}
		} else if escapeC != nil {
			escape.Stop()
			escapeC = nil
		}

		if err := a.Render(); err != nil {
			return err
		}
	}
}

// HandleInput decodes one chunk of terminal bytes and applies the commands
// it produces. It returns ErrQuit when the session should end.
func (a *App) HandleInput(data []byte) error {
	cmds := a.dispatcher.FeedBytes(data)
	a.metrics.RecordInput(len(cmds))
	return a.applyAll(cmds)
}

// FlushInput completes a pending escape sequence after the timeout, turning
// a lone ESC into the Escape key.
func (a *App) FlushInput() error {
	cmds := a.dispatcher.Flush()
	a.metrics.RecordInput(len(cmds))
	return a.applyAll(cmds)
}

func (a *App) applyAll(cmds []command.Command) error {
	for _, cmd := range cmds {
		if err := a.apply(cmd); err != nil {
			return err
		}
	}
	return nil
}

// apply runs one command through the engine and acts on its effect.
func (a *App) apply(cmd command.Command) error {
	eng := a.doc.Engine()
	effect, err := eng.Apply(cmd)
	if err != nil {
		a.metrics.RecordApplyError()
		if errors.Is(err, engine.ErrReadOnly) {
			a.status.SetMessage("read-only", statusline.MessageWarning)
			return nil
		}
		a.logger.Error("apply %s: %v", cmd, err)
		return nil
	}

	if effect != engine.EffectQuit && effect != engine.EffectNone {
		// Confirmation applies only to back-to-back quits.
		a.quitArmed = false
	}
	if effect == engine.EffectCursor || effect == engine.EffectEdit {
		a.status.ClearMessage()
	}

	switch effect {
	case engine.EffectSave:
		a.save()
	case engine.EffectRedraw:
		a.differ.Invalidate()
	case engine.EffectQuit:
		if eng.Modified() && !a.quitArmed {
			a.quitArmed = true
			a.status.SetMessage(quitWarning, statusline.MessageWarning)
			return nil
		}
		a.logger.Info("quit (modified=%v)", eng.Modified())
		return ErrQuit
	}
	return nil
}

const quitWarning = "unsaved changes; press quit again"

// save writes the document. Failures are reported on the status line and
// the session continues.
func (a *App) save() {
	eng := a.doc.Engine()
	data, err := a.doc.Save()
	a.metrics.RecordSave(err)
	if err != nil {
		a.setStatus(err.Error(), statusline.MessageError)
		return
	}
	if a.watcher != nil {
		a.watcher.SetKnown(data)
	}
	a.status.SetMessage(describeSave(data, eng.LineCount()), statusline.MessageInfo)
	a.logger.Info("saved %q (%d bytes)", a.doc.Path(), len(data))
}

// HandleFileEvent reacts to a change made to the file by another process.
// An unmodified document is reloaded; a modified one keeps its content and
// warns.
func (a *App) HandleFileEvent(ev filewatch.Event) {
	a.logger.Debug("file event %s %q", ev.Op, ev.Path)
	switch {
	case ev.Op == filewatch.OpRemove:
		a.setStatus("file removed from disk", statusline.MessageWarning)
	case a.doc.Engine().Modified():
		a.setStatus("file changed on disk; save overwrites it", statusline.MessageWarning)
	default:
		if err := a.doc.Reload(); err != nil {
			a.setStatus(err.Error(), statusline.MessageError)
			return
		}
		a.metrics.RecordReload()
		a.status.SetMessage("reloaded: file changed on disk", statusline.MessageInfo)
	}
}

// Resize reads the terminal size and resizes the viewport and frame.
func (a *App) Resize() {
	w, h := a.backend.Size()
	w, h = max(w, 1), max(h, 1)
	a.width, a.height = w, h

	rows := renderer.TextRows(h, true)
	if a.viewport == nil {
		a.viewport = viewport.NewViewport(rows, w)
		a.viewport.SetMargin(a.cfg.Viewport.Margin)
	} else {
		a.viewport.Resize(rows, w)
	}
	a.differ.Resize(w, h)
	a.doc.Engine().SetPageSize(rows)
	a.logger.Debug("resize %dx%d", w, h)
}

// Render scrolls the cursor into view, composes the frame and writes the
// difference to the backend.
func (a *App) Render() error {
	if a.viewport == nil {
		a.Resize()
	}
	start := time.Now()

	eng := a.doc.Engine()
	doc := eng.Buffer()
	pos := eng.Position()
	a.viewport.EnsureVisible(pos.Line, renderer.CursorCell(doc, a.mapper, pos))

	a.status.SetModified(eng.Modified())
	a.status.SetPosition(pos.Line, pos.Column, eng.LineCount())

	sel, hasSel := eng.Selection()
	scene := renderer.Scene{
		Doc:          doc,
		Viewport:     a.viewport,
		Mapper:       a.mapper,
		Cursor:       pos,
		Selection:    sel,
		HasSelection: hasSel,
		Status:       a.status,
		Theme:        a.theme,
	}
	frame := renderer.Compose(scene, a.width, a.height)
	ops := a.differ.Render(frame, renderer.CursorScreen(scene))

	full := len(ops) > 0 && ops[0].Kind == renderer.OpClear
	if err := a.backend.Apply(ops); err != nil {
		return NewOperationError("render", "", err)
	}
	a.metrics.RecordFrame(time.Since(start), renderer.CountCells(ops), full)
	return nil
}
