package pulse

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Waveform is a decoded pulse payload.
type Waveform struct {
	Sections    []Section `json:"sections"`
	SleepTime   float64   `json:"sleepTime"`
	SpeedFactor int       `json:"speedFactor"`
}

// Section is one enabled, present section of a waveform.
type Section struct {
	Pulse       []int         `json:"pulse"`
	SectionTime float64       `json:"sectionTime"`
	Freq        Frequency     `json:"freq"`
	FreqMode    FrequencyMode `json:"freqMode,omitempty"`
}

// Frequency is either a single value or a (min, max) pair. It marshals to a
// JSON number or a two element array accordingly.
type Frequency struct {
	Min  int
	Max  int
	Pair bool
}

// FixedFrequency builds a single-value frequency.
func FixedFrequency(hz int) Frequency { return Frequency{Min: hz, Max: hz} }

// RangeFrequency builds a (min, max) frequency pair.
func RangeFrequency(minHz, maxHz int) Frequency {
	return Frequency{Min: minHz, Max: maxHz, Pair: true}
}

func (f Frequency) String() string {
	if f.Pair {
		return fmt.Sprintf("%d-%d Hz", f.Min, f.Max)
	}
	return fmt.Sprintf("%d Hz", f.Min)
}

// MarshalJSON implements json.Marshaler.
func (f Frequency) MarshalJSON() ([]byte, error) {
	if f.Pair {
		return json.Marshal([2]int{f.Min, f.Max})
	}
	return json.Marshal(f.Min)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Frequency) UnmarshalJSON(data []byte) error {
	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		*f = FixedFrequency(single)
		return nil
	}
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("frequency: %w", err)
	}
	if len(pair) != 2 {
		return errors.New("frequency: pair must have two elements")
	}
	*f = RangeFrequency(pair[0], pair[1])
	return nil
}

// Assemble builds the waveform from a decoded header and the payload chunks.
// Disabled sections and sections without data are skipped; an empty result
// is valid.
func Assemble(h Header, chunks Chunks) (*Waveform, error) {
	wave := &Waveform{
		Sections:    make([]Section, 0, MaxSections),
		SleepTime:   h.SleepTime,
		SpeedFactor: h.SpeedFactor,
	}
	for i := 0; i < MaxSections; i++ {
		if !h.Enabled[i] {
			continue
		}
		chunk, ok := chunks.Section(i)
		if !ok {
			continue
		}
		samples, err := DecodePulses(chunk, h.PulseCounts[i])
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i+1, err)
		}
		wave.Sections = append(wave.Sections, Section{
			Pulse:       samples,
			SectionTime: h.SectionTimes[i],
			Freq:        sectionFrequency(h.Modes[i], h.Frequencies[i]),
			FreqMode:    h.Modes[i],
		})
	}
	return wave, nil
}

// sectionFrequency keeps only the first frequency unless the mode modulates.
func sectionFrequency(mode FrequencyMode, pair FrequencyPair) Frequency {
	if !mode.Modulated() {
		return FixedFrequency(pair.Min)
	}
	return RangeFrequency(pair.Min, pair.Max)
}

// Decoder turns scanned URLs into waveforms.
type Decoder struct {
	Unwrapper Unwrapper
}

// NewDecoder returns a decoder whose inflated payload size is capped at
// maxInflatedBytes (zero selects the default).
func NewDecoder(maxInflatedBytes int64) *Decoder {
	return &Decoder{Unwrapper: Unwrapper{MaxInflatedBytes: maxInflatedBytes}}
}

// Decode unwraps url and decodes the contained payload.
func (d *Decoder) Decode(url string) (*Waveform, error) {
	payload, err := d.Unwrapper.Unwrap(url)
	if err != nil {
		return nil, err
	}
	return DecodePayload(payload)
}

// Decode runs a default Decoder.
func Decode(url string) (*Waveform, error) {
	return (&Decoder{}).Decode(url)
}

// DecodePayload decodes an already unwrapped plaintext payload.
func DecodePayload(payload string) (*Waveform, error) {
	chunks, err := Tokenize(payload)
	if err != nil {
		return nil, err
	}
	header, err := DecodeHeader(chunks.Header)
	if err != nil {
		return nil, err
	}
	return Assemble(header, chunks)
}
