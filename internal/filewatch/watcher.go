// Package filewatch reports changes made to the open document by other
// processes.
//
// The watcher observes the document's directory rather than the file itself
// so it keeps working across write-temp-then-rename saves, which replace
// the inode. Changes whose resulting contents equal the last known contents
// (our own saves, touch, editors rewriting identical bytes) are dropped.
package filewatch

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for related events to
// settle before reporting.
const DefaultDebounce = 100 * time.Millisecond

// Op represents the kind of change.
type Op uint8

const (
	// OpWrite indicates the contents changed.
	OpWrite Op = 1 << iota
	// OpRemove indicates the file was removed or renamed away.
	OpRemove
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}

// Event describes an external change to the watched file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Stats provides watcher status information.
type Stats struct {
	// Raw is the number of fsnotify events seen for the file.
	Raw int64

	// Reported is the number of events delivered.
	Reported int64

	// Suppressed is the number of settled changes that matched the known
	// contents.
	Suppressed int64
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle delay.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher watches a single file.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher

	mu    sync.Mutex
	known [sha256.Size]byte
	// exists is whether the file existed when contents were last recorded.
	exists bool

	events chan Event
	errors chan error

	raw, reported, suppressed atomic.Int64

	closeOnce sync.Once
	closeCh   chan struct{}
	done      chan struct{}
}

// New starts watching path. The file itself need not exist, but its
// directory must.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		fsw:      fsw,
		events:   make(chan Event, 8),
		errors:   make(chan error, 8),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	data, err := os.ReadFile(abs)
	w.setKnown(data, err == nil)

	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns the channel of external changes. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watcher errors. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// SetKnown records data as the current contents of the file, typically
// just before saving it or just after loading it.
func (w *Watcher) SetKnown(data []byte) {
	w.setKnown(data, true)
}

func (w *Watcher) setKnown(data []byte, exists bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.known = sha256.Sum256(data)
	w.exists = exists
}

// Stats returns event counters.
func (w *Watcher) Stats() Stats {
	return Stats{
		Raw:        w.raw.Load(),
		Reported:   w.reported.Load(),
		Suppressed: w.suppressed.Load(),
	}
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		<-w.done
		err = w.fsw.Close()
		close(w.events)
		close(w.errors)
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	var (
		timer  *time.Timer
		settle <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.raw.Add(1)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			settle = timer.C

		case <-settle:
			settle = nil
			w.settle()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// relevant reports whether ev concerns the watched file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) ||
		ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename)
}

// settle compares the file with the known contents once events stop.
func (w *Watcher) settle() {
	data, err := os.ReadFile(w.path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		select {
		case w.errors <- err:
		default:
		}
		return
	}

	w.mu.Lock()
	sum := sha256.Sum256(data)
	same := exists == w.exists && (!exists || bytes.Equal(sum[:], w.known[:]))
	w.mu.Unlock()

	if same {
		w.suppressed.Add(1)
		return
	}

	op := OpWrite
	if !exists {
		op = OpRemove
	}
	// Report each distinct state once.
	w.setKnown(data, exists)

	select {
	case w.events <- Event{Path: w.path, Op: op, Time: time.Now()}:
		w.reported.Add(1)
	case <-w.closeCh:
	}
}
