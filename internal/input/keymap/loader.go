package keymap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies an override file syntax.
type Format string

// Supported override formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned for files whose extension is not a known
// override format.
var ErrUnsupportedFormat = errors.New("unsupported keymap format")

// overrideFile is the on-disk layout shared by both formats.
type overrideFile struct {
	Bindings []Binding `yaml:"bindings" toml:"bindings"`
}

// FormatFromPath chooses the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadFile reads override bindings from path.
func LoadFile(path string) ([]Binding, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	return LoadReader(f, format)
}

// LoadReader reads override bindings in the given format.
func LoadReader(r io.Reader, format Format) ([]Binding, error) {
	var file overrideFile
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&file)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}
	return file.Bindings, nil
}

// Load returns the default keymap with the overrides in path merged over it.
// An empty path yields the defaults. Invalid entries are reported in the
// error while the valid ones still take effect.
func Load(path string) (*Keymap, error) {
	km := Default()
	if path == "" {
		return km, nil
	}
	bindings, err := LoadFile(path)
	if err != nil {
		return km, err
	}
	return km, km.Merge(bindings)
}
