package pulse

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Marker separates the URL prefix from the hex encoded payload.
const Marker = "#DGLAB-PULSE#"

// DefaultMaxInflatedBytes bounds the gzip output of a single payload. Real
// payloads inflate to a few kilobytes.
const DefaultMaxInflatedBytes = 1 << 20

// Unwrapper recovers the plaintext payload from a scanned URL.
type Unwrapper struct {
	// MaxInflatedBytes caps the inflated size; zero selects DefaultMaxInflatedBytes.
	MaxInflatedBytes int64
}

// Unwrap strips the marker, hex-decodes, inflates, and base64-decodes the
// payload carried by url. Each layer is decoded completely before the next.
func (u Unwrapper) Unwrap(url string) (string, error) {
	encoded, err := extractHex(url)
	if err != nil {
		return "", err
	}

	compressed, err := hex.DecodeString(encoded)
	if err != nil {
		return "", wrap(ErrInvalidFormat, "unwrap", "decode hex", err)
	}

	inflated, err := u.inflate(compressed)
	if err != nil {
		return "", err
	}

	text := base64Text(toValidUTF8(inflated))
	decoded, err := base64.RawStdEncoding.DecodeString(text)
	if err != nil {
		return "", wrap(ErrInvalidFormat, "unwrap", "decode base64", err)
	}
	return toValidUTF8(decoded), nil
}

// Unwrap runs the default Unwrapper.
func Unwrap(url string) (string, error) {
	return Unwrapper{}.Unwrap(url)
}

func (u Unwrapper) limit() int64 {
	if u.MaxInflatedBytes <= 0 {
		return DefaultMaxInflatedBytes
	}
	return u.MaxInflatedBytes
}

func (u Unwrapper) inflate(compressed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, wrap(ErrDecompression, "unwrap", "open gzip stream", err)
	}
	defer zr.Close()

	limit := u.limit()
	data, err := io.ReadAll(io.LimitReader(zr, limit+1))
	if err != nil {
		return nil, wrap(ErrDecompression, "unwrap", "inflate", err)
	}
	if int64(len(data)) > limit {
		return nil, wrap(ErrDecompression, "unwrap", fmt.Sprintf("inflated payload exceeds %d bytes", limit), nil)
	}
	return data, nil
}

// extractHex returns the text between the first marker and the next one (or
// the end of the string).
func extractHex(url string) (string, error) {
	_, rest, found := strings.Cut(url, Marker)
	if !found {
		return "", wrap(ErrInvalidFormat, "unwrap", "missing "+Marker+" marker", nil)
	}
	if idx := strings.Index(rest, Marker); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest), nil
}

// base64Text normalizes base64 text so that whitespace, URL-safe alphabets and
// missing padding are all accepted.
func base64Text(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '-':
			b.WriteByte('+')
		case r == '_':
			b.WriteByte('/')
		case r == ' ', r == '\t', r == '\r', r == '\n':
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), "=")
}

func toValidUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
