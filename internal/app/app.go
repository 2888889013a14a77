// Package app runs the editor: it owns the open document and drives the
// dispatch, apply, scroll and render cycle from a single event loop.
package app

import (
	"errors"
	"fmt"

	"github.com/dshills/kilt/internal/config"
	"github.com/dshills/kilt/internal/engine"
	"github.com/dshills/kilt/internal/engine/buffer"
	"github.com/dshills/kilt/internal/filestore"
	"github.com/dshills/kilt/internal/filewatch"
	"github.com/dshills/kilt/internal/input"
	"github.com/dshills/kilt/internal/input/keymap"
	"github.com/dshills/kilt/internal/renderer"
	"github.com/dshills/kilt/internal/renderer/backend"
	"github.com/dshills/kilt/internal/renderer/core"
	"github.com/dshills/kilt/internal/renderer/statusline"
	"github.com/dshills/kilt/internal/renderer/viewport"
)

// Options configures a new App.
type Options struct {
	// Path is the file to edit. Empty opens an unnamed scratch document.
	Path string

	// Config holds validated settings. Nil uses config.Default().
	Config *config.Config

	// Backend is the terminal. Required.
	Backend backend.Backend

	// Store loads and saves the file. Nil uses the operating system.
	Store filestore.Store

	// Logger receives diagnostics. Nil discards them.
	Logger *Logger

	// Watch enables notification of changes made by other processes.
	Watch bool

	// ReadOnly rejects edits.
	ReadOnly bool
}

// App is the editor session. All of its state is owned by the goroutine
// that calls Run.
type App struct {
	cfg     *config.Config
	logger  *Logger
	metrics *Metrics

	backend backend.Backend
	store   filestore.Store
	watcher *filewatch.Watcher

	doc        *Document
	dispatcher *input.Dispatcher
	viewport   *viewport.Viewport
	mapper     viewport.ColumnMapper
	differ     *renderer.Differ
	status     *statusline.StatusLine
	theme      renderer.Theme

	width, height int

	// quitArmed is set after a quit was refused because of unsaved
	// changes. The next quit exits.
	quitArmed bool

	running bool
}

// New creates the session: it loads the file, the keymap and the terminal
// independent parts of the renderer. The backend is started by Run.
func New(opts Options) (*App, error) {
	if opts.Backend == nil {
		return nil, &InitError{Component: "backend", Err: errors.New("no backend")}
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = NullLogger
	}
	store := opts.Store
	if store == nil {
		store = filestore.NewOS()
	}

	a := &App{
		cfg:     cfg,
		logger:  logger.WithComponent("app"),
		metrics: NewMetrics(),
		backend: opts.Backend,
		store:   store,
		differ:  renderer.NewDiffer(),
		theme:   renderer.DefaultTheme(),
		mapper:  columnMapper(cfg),
	}

	bufBackend, err := buffer.ParseBackend(cfg.Buffer.Backend)
	if err != nil {
		return nil, &InitError{Component: "buffer", Err: err}
	}
	engineOpts := []engine.Option{
		engine.WithBackend(bufBackend),
		engine.WithTabWidth(cfg.Editor.TabWidth),
		engine.WithExpandTabs(cfg.Editor.ExpandTabs),
		engine.WithGraphemeDelete(cfg.Editor.GraphemeDelete),
		engine.WithDebug(cfg.Debug),
	}
	if opts.ReadOnly {
		engineOpts = append(engineOpts, engine.WithReadOnly())
	}
	doc, err := OpenDocument(store, opts.Path, engineOpts...)
	if err != nil {
		return nil, &InitError{Component: "document", Err: err}
	}
	a.doc = doc

	a.status = statusline.New(statusStyles(cfg))
	a.status.SetFilename(opts.Path)
	a.status.SetReadOnly(opts.ReadOnly)
	if doc.IsNew() {
		a.status.SetMessage("new file", statusline.MessageInfo)
	}

	km, err := keymap.Load(config.ExpandHome(cfg.Keymap.File))
	if err != nil {
		// The defaults and any valid overrides still apply.
		a.logger.Warn("keymap: %v", err)
		a.status.SetMessage("keymap: "+err.Error(), statusline.MessageWarning)
	}
	a.dispatcher = input.New(km, input.WithLogger(logger.WithComponent("input")))

	if opts.Watch && opts.Path != "" {
		w, err := filewatch.New(opts.Path)
		if err != nil {
			a.logger.Warn("file watch disabled: %v", err)
		} else {
			a.watcher = w
		}
	}

	a.logger.Info("opened %q (%d lines, backend %s)", opts.Path, a.doc.Engine().LineCount(), bufBackend)
	return a, nil
}

func columnMapper(cfg *config.Config) viewport.ColumnMapper {
	if cfg.Editor.ColumnMode == config.ColumnDisplay {
		return viewport.DisplayColumns{TabWidth: cfg.Editor.TabWidth}
	}
	return viewport.ScalarColumns{}
}

func statusStyles(cfg *config.Config) statusline.Styles {
	styles := statusline.DefaultStyles()
	fg, bg := cfg.StatusColors()
	if fg.IsDefault() && bg.IsDefault() {
		return styles
	}
	bar := core.DefaultStyle().WithForeground(fg).WithBackground(bg)
	if fg.IsDefault() || bg.IsDefault() {
		bar = bar.Reverse()
	}
	styles.Bar = bar
	styles.Warning = bar.WithForeground(core.ColorFromIndex(3))
	styles.Error = bar.WithForeground(core.ColorFromIndex(1)).Bold()
	return styles
}

// Document returns the open document.
func (a *App) Document() *Document {
	return a.doc
}

// Metrics returns the session counters.
func (a *App) Metrics() *Metrics {
	return a.metrics
}

// InputMetrics returns the dispatcher counters.
func (a *App) InputMetrics() input.MetricsSnapshot {
	return a.dispatcher.Metrics().Snapshot()
}

// Status returns the current status message.
func (a *App) Status() (string, statusline.MessageType) {
	return a.status.Message()
}

// Viewport returns the visible rectangle.
func (a *App) Viewport() viewport.Rect {
	return a.viewport.Rect()
}

// Close releases the file watcher. Run calls it on return.
func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	err := a.watcher.Close()
	a.watcher = nil
	return err
}

// setStatus shows msg and logs warnings and errors.
func (a *App) setStatus(msg string, t statusline.MessageType) {
	a.status.SetMessage(msg, t)
	switch t {
	case statusline.MessageWarning:
		a.logger.Warn("%s", msg)
	case statusline.MessageError:
		a.logger.Error("%s", msg)
	}
}

func describeSave(data []byte, lines int) string {
	return fmt.Sprintf("wrote %d lines, %d bytes", lines, len(data))
}
