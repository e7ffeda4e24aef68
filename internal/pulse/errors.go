package pulse

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFormat marks payloads that are structurally malformed: missing
	// marker, bad hex or base64 text, too few chunks, or unparseable integers.
	ErrInvalidFormat = errors.New("invalid pulse format")
	// ErrDecompression marks gzip streams that cannot be inflated or that
	// inflate beyond the configured limit.
	ErrDecompression = errors.New("pulse decompression error")
	// ErrOutOfRange marks slider indices outside a strict lookup table and
	// pulse counts above MaxPulseCount.
	ErrOutOfRange = errors.New("slider index out of range")
)

// wrap tags err (which may be nil) with a sentinel and a layer description so
// callers can match with errors.Is while still reading the full chain.
func wrap(marker error, layer, message string, err error) error {
	detail := strings.TrimSpace(layer)
	if message = strings.TrimSpace(message); message != "" {
		if detail != "" {
			detail += ": "
		}
		detail += message
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}
