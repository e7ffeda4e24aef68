package pulse

import (
	"fmt"
	"strconv"
	"strings"
)

const headerFieldCount = 20

// MaxPulseCount bounds the per-section pulse count a header may declare.
const MaxPulseCount = 1000

// Header field offsets. Frequencies occupy two runs of three fields: the
// first value of each section's pair sits at fieldFreqFirst+i and the second
// at fieldFreqSecond+i.
const (
	fieldFreqFirst     = 0
	fieldFreqSecond    = 3
	fieldPulseCount    = 6
	fieldSectionTime   = 9
	fieldFrequencyMode = 12
	fieldSection2On    = 15
	fieldSection3On    = 16
	fieldSleepTime     = 17
	fieldReserved      = 18
	fieldSpeedFactor   = 19
)

// FrequencyPair holds the two frequencies configured for a section.
type FrequencyPair struct {
	Min int
	Max int
}

// Header is the decoded header chunk.
type Header struct {
	Frequencies  [MaxSections]FrequencyPair
	PulseCounts  [MaxSections]int
	SectionTimes [MaxSections]float64
	Modes        [MaxSections]FrequencyMode
	Enabled      [MaxSections]bool
	SleepTime    float64
	// Reserved carries header field 18, whose meaning is unknown.
	Reserved    int
	SpeedFactor int
}

// DecodeHeader parses the comma separated header chunk. Every field the
// header layout references must be an integer.
func DecodeHeader(chunk string) (Header, error) {
	raw := strings.Split(chunk, fieldSeparator)
	if len(raw) < headerFieldCount {
		return Header{}, wrap(ErrInvalidFormat, "header",
			fmt.Sprintf("expected %d fields, got %d", headerFieldCount, len(raw)), nil)
	}

	var fields [headerFieldCount]int
	for i := range fields {
		value, err := strconv.Atoi(strings.TrimSpace(raw[i]))
		if err != nil {
			return Header{}, wrap(ErrInvalidFormat, "header",
				fmt.Sprintf("field %d is not an integer (%q)", i, raw[i]), nil)
		}
		fields[i] = value
	}

	var h Header
	for i := 0; i < MaxSections; i++ {
		h.Frequencies[i] = FrequencyPair{
			Min: FrequencyFromSlider(fields[fieldFreqFirst+i]),
			Max: FrequencyFromSlider(fields[fieldFreqSecond+i]),
		}
		count := fields[fieldPulseCount+i]
		if count < 0 || count > MaxPulseCount {
			return Header{}, wrap(ErrOutOfRange, "header",
				fmt.Sprintf("section %d: pulse count %d outside 0..%d", i+1, count, MaxPulseCount), nil)
		}
		h.PulseCounts[i] = count

		seconds, err := DurationFromSlider(fields[fieldSectionTime+i])
		if err != nil {
			return Header{}, fmt.Errorf("header: section %d: %w", i+1, err)
		}
		h.SectionTimes[i] = seconds
		h.Modes[i] = ModeFromCode(fields[fieldFrequencyMode+i])
	}

	h.Enabled = [MaxSections]bool{
		true,
		strings.TrimSpace(raw[fieldSection2On]) == "1",
		strings.TrimSpace(raw[fieldSection3On]) == "1",
	}
	h.SleepTime = SleepTimeFromSlider(fields[fieldSleepTime])
	h.Reserved = fields[fieldReserved]
	h.SpeedFactor = fields[fieldSpeedFactor]
	return h, nil
}

// SleepTimeFromSlider converts the sleep slider into seconds. Zero disables
// the pause; otherwise every ten slider steps add a tenth of a second on top
// of the 0.1 s minimum.
func SleepTimeFromSlider(raw int) float64 {
	if raw == 0 {
		return 0
	}
	tenths := floorDiv(raw-1, 10) + 1
	return float64(tenths) / 10
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
