package buffer

import "fmt"

// Backend names a Store implementation.
type Backend string

// Available backends.
const (
	BackendLines Backend = "lines"
	BackendRope  Backend = "rope"
)

// ParseBackend converts a configuration string to a Backend.
// The empty string selects BackendLines.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case "", BackendLines:
		return BackendLines, nil
	case BackendRope:
		return BackendRope, nil
	default:
		return "", fmt.Errorf("unknown buffer backend %q", s)
	}
}

// New creates a Store of the given backend holding text.
func New(backend Backend, text string) (Store, error) {
	switch backend {
	case "", BackendLines:
		return NewBufferFromString(text), nil
	case BackendRope:
		return NewRopeBufferFromString(text), nil
	default:
		return nil, fmt.Errorf("unknown buffer backend %q", backend)
	}
}
