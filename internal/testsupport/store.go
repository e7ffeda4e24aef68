package testsupport

import (
	"context"
	"testing"

	"pulseqr/internal/config"
	"pulseqr/internal/library"
	"pulseqr/internal/pulse"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// PutPulse stores a single-section pulse under id for tests.
func PutPulse(t testing.TB, store *library.Store, id, name string) *library.Record {
	t.Helper()

	rec, err := store.Upsert(context.Background(), library.Record{
		ID:   id,
		Name: name,
		URL:  SampleURLPrefix + pulse.Marker,
		Waveform: &pulse.Waveform{
			Sections: []pulse.Section{{
				Pulse:       []int{0, 50, 100},
				SectionTime: 0.1,
				Freq:        pulse.FixedFrequency(10),
				FreqMode:    pulse.ModeFixed,
			}},
			SpeedFactor: 1,
		},
		Frames: []string{"0A0A0A0A00326400", "0A0A0A0A32640032"},
	})
	if err != nil {
		t.Fatalf("store.Upsert: %v", err)
	}
	return rec
}
