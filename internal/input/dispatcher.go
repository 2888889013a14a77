package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/kilt/internal/command"
	"github.com/dshills/kilt/internal/input/key"
	"github.com/dshills/kilt/internal/input/keymap"
)

// ErrMalformedInput describes a byte sequence that could not be decoded.
// It is only ever logged.
var ErrMalformedInput = errors.New("malformed input")

// maxEscapeLen bounds the bytes collected after ESC before the sequence is
// discarded.
const maxEscapeLen = 16

const esc = 0x1b

// State is the decoder state.
type State uint8

// Decoder states.
const (
	StateIdle State = iota
	StatePendingEscape
	StatePendingMultiByte
)

var stateNames = [...]string{"idle", "pending-escape", "pending-multibyte"}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// Logger receives diagnostics about discarded input.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for discarded input.
func WithLogger(l Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics sets the counters the dispatcher updates.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// Dispatcher decodes terminal input into commands. It is owned by the event
// loop and is not safe for concurrent use.
type Dispatcher struct {
	keymap  *keymap.Keymap
	logger  Logger
	metrics *Metrics

	state State
	seq   []byte // bytes after ESC, or the bytes of a partial rune
	need  int    // total length of the partial rune

	// lastCR is set when the previous idle byte was a carriage return, so
	// the line feed of a CR LF pair is not a second Enter.
	lastCR bool
}

// New creates a dispatcher that resolves keys through km.
func New(km *keymap.Keymap, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		keymap:  km,
		logger:  nopLogger{},
		metrics: &Metrics{},
		seq:     make([]byte, 0, maxEscapeLen),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current decoder state.
func (d *Dispatcher) State() State {
	return d.state
}

// Pending returns true while a key is partially decoded. The caller should
// arm the escape timeout and call Flush when it expires.
func (d *Dispatcher) Pending() bool {
	return d.state != StateIdle
}

// Metrics returns the dispatcher counters.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// SetKeymap replaces the keymap used for resolution.
func (d *Dispatcher) SetKeymap(km *keymap.Keymap) {
	d.keymap = km
}

// FeedBytes feeds every byte of p and returns the commands produced.
func (d *Dispatcher) FeedBytes(p []byte) []command.Command {
	var out []command.Command
	for _, b := range p {
		out = append(out, d.Feed(b)...)
	}
	return out
}

// Feed consumes one byte and returns the commands it completes, usually
// none or one.
func (d *Dispatcher) Feed(b byte) []command.Command {
	d.metrics.bytesTotal.Add(1)
	var out []command.Command
	d.feed(b, &out)
	return out
}

func (d *Dispatcher) feed(b byte, out *[]command.Command) {
	switch d.state {
	case StatePendingEscape:
		d.feedEscape(b, out)
	case StatePendingMultiByte:
		d.feedMultiByte(b, out)
	default:
		d.feedIdle(b, out)
	}
}

// Flush completes whatever is pending as if no more bytes will follow.
func (d *Dispatcher) Flush() []command.Command {
	var out []command.Command
	switch d.state {
	case StatePendingEscape:
		d.metrics.escapeTimeouts.Add(1)
		switch string(d.seq) {
		case "":
			d.emit(key.NewSpecialEvent(key.KeyEscape, key.ModNone), &out)
		case "[", "O":
			d.emit(key.NewRuneEvent(rune(d.seq[0]), key.ModAlt), &out)
		default:
			d.malformed("incomplete escape sequence", d.seq)
		}
	case StatePendingMultiByte:
		d.malformed("incomplete UTF-8 sequence", d.seq)
	}
	d.reset()
	return out
}

// Reset discards any partial input.
func (d *Dispatcher) Reset() {
	d.reset()
	d.lastCR = false
}

func (d *Dispatcher) reset() {
	d.state = StateIdle
	d.seq = d.seq[:0]
	d.need = 0
}

// Idle

func (d *Dispatcher) feedIdle(b byte, out *[]command.Command) {
	afterCR := d.lastCR
	d.lastCR = b == '\r'
	switch {
	case b == '\n' && afterCR:
		// CR LF
	case b == esc:
		d.state = StatePendingEscape
		d.seq = d.seq[:0]
	case b < 0x20 || b == 0x7f:
		d.emit(controlEvent(b, key.ModNone), out)
	case b < 0x80:
		d.emit(key.NewRuneEvent(rune(b), key.ModNone), out)
	default:
		n := utf8Len(b)
		if n == 0 {
			d.malformed("invalid UTF-8 lead byte", []byte{b})
			return
		}
		d.state = StatePendingMultiByte
		d.seq = append(d.seq[:0], b)
		d.need = n
	}
}

// controlEvent maps a C0 control byte or DEL to a key event.
func controlEvent(b byte, mods key.Modifier) key.Event {
	switch b {
	case '\r', '\n':
		return key.NewSpecialEvent(key.KeyEnter, mods)
	case '\t':
		return key.NewSpecialEvent(key.KeyTab, mods)
	case 0x7f, 0x08:
		return key.NewSpecialEvent(key.KeyBackspace, mods)
	case 0x00:
		return key.NewRuneEvent(' ', mods|key.ModCtrl)
	}
	if b <= 0x1a {
		return key.NewRuneEvent(rune('a'+b-1), mods|key.ModCtrl)
	}
	// 0x1c..0x1f are Ctrl+\ ] ^ _
	return key.NewRuneEvent(rune(b+0x40), mods|key.ModCtrl)
}

// utf8Len returns the encoded length implied by a lead byte, or 0 if b
// cannot start a multi-byte rune.
func utf8Len(b byte) int {
	switch {
	case b >= 0xc2 && b <= 0xdf:
		return 2
	case b >= 0xe0 && b <= 0xef:
		return 3
	case b >= 0xf0 && b <= 0xf4:
		return 4
	default:
		return 0
	}
}

// Multi-byte

func (d *Dispatcher) feedMultiByte(b byte, out *[]command.Command) {
	if b&0xc0 != 0x80 {
		d.malformed("truncated UTF-8 sequence", d.seq)
		d.reset()
		d.feedIdle(b, out)
		return
	}
	d.seq = append(d.seq, b)
	if len(d.seq) < d.need {
		return
	}

	r, size := utf8.DecodeRune(d.seq)
	if r == utf8.RuneError && size <= 1 {
		d.malformed("invalid UTF-8 sequence", d.seq)
	} else {
		d.emit(key.NewRuneEvent(r, key.ModNone), out)
	}
	d.reset()
}

// Escape sequences

func (d *Dispatcher) feedEscape(b byte, out *[]command.Command) {
	if len(d.seq) == 0 {
		d.feedEscapeFirst(b, out)
		return
	}

	switch d.seq[0] {
	case '[':
		d.feedCSI(b, out)
	case 'O':
		d.feedSS3(b, out)
	}
}

// feedEscapeFirst handles the byte right after ESC.
func (d *Dispatcher) feedEscapeFirst(b byte, out *[]command.Command) {
	switch {
	case b == '[' || b == 'O':
		d.seq = append(d.seq, b)
	case b == esc:
		// ESC ESC: the first was a lone Escape, the second starts afresh.
		d.emit(key.NewSpecialEvent(key.KeyEscape, key.ModNone), out)
		d.seq = d.seq[:0]
	case b < 0x20 || b == 0x7f:
		d.reset()
		d.emit(controlEvent(b, key.ModAlt), out)
	case b < 0x80:
		d.reset()
		d.emit(key.NewRuneEvent(rune(b), key.ModAlt), out)
	default:
		d.emit(key.NewSpecialEvent(key.KeyEscape, key.ModNone), out)
		d.reset()
		d.feedIdle(b, out)
	}
}

func (d *Dispatcher) feedCSI(b byte, out *[]command.Command) {
	switch {
	case b >= 0x20 && b <= 0x3f:
		// parameter and intermediate bytes
		if len(d.seq) >= maxEscapeLen {
			d.malformed("escape sequence too long", d.seq)
			d.reset()
			return
		}
		d.seq = append(d.seq, b)
	case b >= 0x40 && b <= 0x7e:
		ev, ok := decodeCSI(string(d.seq[1:]), b)
		if ok {
			d.emit(ev, out)
		} else {
			d.malformed("unknown escape sequence", append(d.seq, b))
		}
		d.reset()
	default:
		d.malformed("interrupted escape sequence", d.seq)
		d.reset()
		d.feedIdle(b, out)
	}
}

func (d *Dispatcher) feedSS3(b byte, out *[]command.Command) {
	switch {
	case b >= '0' && b <= '9' || b == ';':
		if len(d.seq) >= maxEscapeLen {
			d.malformed("escape sequence too long", d.seq)
			d.reset()
			return
		}
		d.seq = append(d.seq, b)
	case b >= 0x40 && b <= 0x7e:
		ev, ok := decodeSS3(string(d.seq[1:]), b)
		if ok {
			d.emit(ev, out)
		} else {
			d.malformed("unknown escape sequence", append(d.seq, b))
		}
		d.reset()
	default:
		d.malformed("interrupted escape sequence", d.seq)
		d.reset()
		d.feedIdle(b, out)
	}
}

// finalKeys maps the final byte of "ESC [ ... X" and "ESC O X" sequences.
var finalKeys = map[byte]key.Key{
	'A': key.KeyUp,
	'B': key.KeyDown,
	'C': key.KeyRight,
	'D': key.KeyLeft,
	'H': key.KeyHome,
	'F': key.KeyEnd,
	'P': key.KeyF1,
	'Q': key.KeyF2,
	'R': key.KeyF3,
	'S': key.KeyF4,
}

// tildeKeys maps the first parameter of "ESC [ n ~" sequences.
var tildeKeys = map[int]key.Key{
	1:  key.KeyHome,
	2:  key.KeyInsert,
	3:  key.KeyDelete,
	4:  key.KeyEnd,
	5:  key.KeyPageUp,
	6:  key.KeyPageDown,
	7:  key.KeyHome,
	8:  key.KeyEnd,
	11: key.KeyF1,
	12: key.KeyF2,
	13: key.KeyF3,
	14: key.KeyF4,
	15: key.KeyF5,
	17: key.KeyF6,
	18: key.KeyF7,
	19: key.KeyF8,
	20: key.KeyF9,
	21: key.KeyF10,
	23: key.KeyF11,
	24: key.KeyF12,
}

// decodeCSI decodes the parameters and final byte of a CSI sequence.
func decodeCSI(params string, final byte) (key.Event, bool) {
	args, ok := parseParams(params)
	if !ok {
		return key.Event{}, false
	}
	mods := key.ModNone
	if len(args) > 1 {
		mods = key.FromXterm(args[1])
	}

	switch final {
	case '~':
		if len(args) == 0 {
			return key.Event{}, false
		}
		k, ok := tildeKeys[args[0]]
		if !ok {
			return key.Event{}, false
		}
		return key.NewSpecialEvent(k, mods), true
	case 'Z':
		return key.NewSpecialEvent(key.KeyTab, mods|key.ModShift), true
	}

	k, ok := finalKeys[final]
	if !ok {
		return key.Event{}, false
	}
	return key.NewSpecialEvent(k, mods), true
}

// decodeSS3 decodes "ESC O X", optionally with a modifier digit.
func decodeSS3(params string, final byte) (key.Event, bool) {
	k, ok := finalKeys[final]
	if !ok {
		return key.Event{}, false
	}
	mods := key.ModNone
	if params != "" {
		args, ok := parseParams(params)
		if !ok || len(args) == 0 {
			return key.Event{}, false
		}
		mods = key.FromXterm(args[len(args)-1])
	}
	return key.NewSpecialEvent(k, mods), true
}

// parseParams splits "1;5" into integers. Empty fields default to 1.
// Private-mode markers such as '?' and '<' are rejected.
func parseParams(s string) ([]int, bool) {
	if s == "" {
		return nil, true
	}
	fields := strings.Split(s, ";")
	args := make([]int, len(fields))
	for i, f := range fields {
		if f == "" {
			args[i] = 1
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, false
		}
		args[i] = n
	}
	return args, true
}

// Resolution

// emit resolves ev through the keymap and appends the resulting command.
func (d *Dispatcher) emit(ev key.Event, out *[]command.Command) {
	d.metrics.keyEventsTotal.Add(1)
	cmd, ok := d.resolve(ev)
	if !ok {
		d.metrics.unboundKeys.Add(1)
		d.logger.Debug("unbound key %s", ev)
		return
	}
	d.metrics.commandsTotal.Add(1)
	*out = append(*out, cmd)
}

func (d *Dispatcher) resolve(ev key.Event) (command.Command, bool) {
	if kind, ok := d.keymap.Lookup(ev); ok {
		if kind == command.Insert {
			if !ev.IsRune() {
				return command.Command{}, false
			}
			return command.InsertText(string(ev.Rune)), true
		}
		return command.New(kind), true
	}
	if ev.IsChar() {
		return command.InsertText(string(ev.Rune)), true
	}
	return command.Command{}, false
}

func (d *Dispatcher) malformed(reason string, seq []byte) {
	d.metrics.malformed.Add(1)
	err := fmt.Errorf("%w: %s %q", ErrMalformedInput, reason, seq)
	d.logger.Warn("%v", err)
}
