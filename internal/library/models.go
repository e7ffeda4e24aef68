package library

import (
	"time"

	"pulseqr/internal/pulse"
)

// Record is one stored pulse.
type Record struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	SourcePath string          `json:"sourcePath,omitempty"`
	URL        string          `json:"url"`
	Waveform   *pulse.Waveform `json:"waveform"`
	Frames     []string        `json:"pulseData"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Duration returns the playback length of the stored frames.
func (r Record) Duration() time.Duration {
	return time.Duration(len(r.Frames)) * 100 * time.Millisecond
}
