package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnencodable indicates document text that cannot be represented in the
// file's original encoding.
var ErrUnencodable = errors.New("text not representable in file encoding")

// Encoding identifies the byte encoding of a file on disk.
type Encoding uint8

// Supported encodings.
const (
	// EncodingUTF8 is the default encoding.
	EncodingUTF8 Encoding = iota

	// EncodingLatin1 is used for files that are not valid UTF-8.
	// Every byte sequence decodes, so such files still round-trip.
	EncodingLatin1
)

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingLatin1:
		return "latin-1"
	default:
		return fmt.Sprintf("Encoding(%d)", e)
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format records how a document was stored so saving can reproduce it.
type Format struct {
	// CRLF is true when the file's first line terminator was "\r\n".
	CRLF bool

	// Encoding is the file's byte encoding.
	Encoding Encoding

	// BOM is true when the file started with a UTF-8 byte order mark.
	BOM bool
}

// LineEnding returns the terminator written on save.
func (f Format) LineEnding() string {
	if f.CRLF {
		return "\r\n"
	}
	return "\n"
}

// Decoded is the result of decoding file content.
type Decoded struct {
	// Text uses "\n" terminators only.
	Text string

	// Format describes the original byte layout.
	Format Format
}

// Decode converts file bytes to document text.
//
// The line ending convention is taken from the first terminator in the file.
// All "\r\n" and lone "\r" terminators are normalized to "\n". Content that
// is not valid UTF-8 is decoded as ISO-8859-1.
func Decode(data []byte) (Decoded, error) {
	var f Format
	raw := data
	if bytes.HasPrefix(data, utf8BOM) {
		f.BOM = true
		data = data[len(utf8BOM):]
	}

	if i := bytes.IndexByte(data, '\n'); i > 0 && data[i-1] == '\r' {
		f.CRLF = true
	}

	var text string
	if utf8.Valid(data) {
		text = string(data)
	} else {
		// A leading EF BB BF is ordinary Latin-1 text here.
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return Decoded{}, fmt.Errorf("decode latin-1: %w", err)
		}
		f.Encoding = EncodingLatin1
		f.BOM = false
		text = string(decoded)
	}

	return Decoded{Text: NormalizeLineEndings(text), Format: f}, nil
}

// Encode converts document text back to file bytes using f.
func Encode(text string, f Format) ([]byte, error) {
	if f.CRLF {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}

	switch f.Encoding {
	case EncodingLatin1:
		out, err := charmap.ISO8859_1.NewEncoder().String(text)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.Encoding, ErrUnencodable)
		}
		return []byte(out), nil
	default:
		if !f.BOM {
			return []byte(text), nil
		}
		out := make([]byte, 0, len(utf8BOM)+len(text))
		out = append(out, utf8BOM...)
		return append(out, text...), nil
	}
}
