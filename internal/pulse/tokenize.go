package pulse

import (
	"fmt"
	"strings"
)

const (
	chunkSeparator = "+"
	fieldSeparator = ","
	// MaxSections is the number of sections a payload can describe.
	MaxSections = 3
)

// Chunks is the plaintext payload split into its header and section parts.
type Chunks struct {
	Header string
	// Sections holds the raw section chunks in order; it may be shorter than
	// MaxSections when the payload omits trailing sections.
	Sections []string
}

// Section returns the raw chunk for section index i and whether it carries data.
// Absent and empty chunks both report false.
func (c Chunks) Section(i int) (string, bool) {
	if i < 0 || i >= len(c.Sections) {
		return "", false
	}
	chunk := c.Sections[i]
	return chunk, chunk != ""
}

// Tokenize splits a plaintext payload on '+' into a header chunk and up to
// MaxSections section chunks.
func Tokenize(payload string) (Chunks, error) {
	parts := strings.Split(payload, chunkSeparator)
	if len(parts) < 2 {
		return Chunks{}, wrap(ErrInvalidFormat, "tokenize",
			fmt.Sprintf("expected header and at least one section, got %d chunk(s)", len(parts)), nil)
	}
	sections := parts[1:]
	if len(sections) > MaxSections {
		sections = sections[:MaxSections]
	}
	return Chunks{Header: parts[0], Sections: sections}, nil
}
