package pulse_test

import (
	"errors"
	"strings"
	"testing"

	"pulseqr/internal/pulse"
	"pulseqr/internal/testsupport"
)

func TestDecodeHeaderSample(t *testing.T) {
	h, err := pulse.DecodeHeader(testsupport.SampleHeader)
	if err != nil {
		t.Fatalf("DecodeHeader returned error: %v", err)
	}
	for i := 0; i < pulse.MaxSections; i++ {
		if h.Frequencies[i] != (pulse.FrequencyPair{Min: 10, Max: 10}) {
			t.Fatalf("section %d: unexpected frequencies %+v", i, h.Frequencies[i])
		}
		if h.PulseCounts[i] != 3 {
			t.Fatalf("section %d: unexpected pulse count %d", i, h.PulseCounts[i])
		}
		if h.SectionTimes[i] != 0.1 {
			t.Fatalf("section %d: unexpected section time %v", i, h.SectionTimes[i])
		}
		if h.Modes[i] != pulse.ModeFixed {
			t.Fatalf("section %d: unexpected mode %q", i, h.Modes[i])
		}
	}
	if h.Enabled != [pulse.MaxSections]bool{true, false, false} {
		t.Fatalf("unexpected enabled flags %v", h.Enabled)
	}
	if h.SleepTime != 0 || h.SpeedFactor != 1 {
		t.Fatalf("unexpected sleep/speed %v/%d", h.SleepTime, h.SpeedFactor)
	}
}

func TestDecodeHeaderRejectsPulseCountOutOfRange(t *testing.T) {
	for _, count := range []string{"-1", "1001", "9000000000000000000"} {
		header := "0,0,0,0,0,0," + count + ",0,0,0,0,0,1,1,1,0,0,0,0,1"
		if _, err := pulse.DecodeHeader(header); !errors.Is(err, pulse.ErrOutOfRange) {
			t.Fatalf("count %s: error = %v, want ErrOutOfRange", count, err)
		}
	}
	header := "0,0,0,0,0,0,1000,0,0,0,0,0,1,1,1,0,0,0,0,1"
	h, err := pulse.DecodeHeader(header)
	if err != nil {
		t.Fatalf("DecodeHeader at the limit: %v", err)
	}
	if h.PulseCounts[0] != pulse.MaxPulseCount {
		t.Fatalf("unexpected pulse count %d", h.PulseCounts[0])
	}
}

func TestDecodeHeaderEnableFlagsMatchLiteralOne(t *testing.T) {
	cases := []struct {
		flag string
		want bool
	}{
		{"1", true},
		{" 1 ", true},
		{"01", false},
		{"+1", false},
		{"2", false},
		{"0", false},
	}
	for _, tc := range cases {
		header := "0,0,0,0,0,0,1,1,1,0,0,0,1,1,1," + tc.flag + "," + tc.flag + ",0,0,1"
		h, err := pulse.DecodeHeader(header)
		if err != nil {
			t.Fatalf("flag %q: %v", tc.flag, err)
		}
		if h.Enabled[1] != tc.want || h.Enabled[2] != tc.want {
			t.Fatalf("flag %q: enabled = %v, want %v", tc.flag, h.Enabled, tc.want)
		}
	}
}

func TestDecodeHeaderPairsFrequenciesPositionally(t *testing.T) {
	header := "1,2,3,69,70,83,1,2,3,5,22,100,2,3,4,1,1,11,7,2"
	h, err := pulse.DecodeHeader(header)
	if err != nil {
		t.Fatalf("DecodeHeader returned error: %v", err)
	}
	want := [pulse.MaxSections]pulse.FrequencyPair{
		{Min: 11, Max: 200},
		{Min: 12, Max: 233},
		{Min: 13, Max: 1000},
	}
	if h.Frequencies != want {
		t.Fatalf("unexpected frequency pairs %+v", h.Frequencies)
	}
	if h.PulseCounts != [pulse.MaxSections]int{1, 2, 3} {
		t.Fatalf("unexpected pulse counts %v", h.PulseCounts)
	}
	if h.SectionTimes != [pulse.MaxSections]float64{0.2, 1.0, 10.0} {
		t.Fatalf("unexpected section times %v", h.SectionTimes)
	}
	if h.Modes != [pulse.MaxSections]pulse.FrequencyMode{pulse.ModeInSection, pulse.ModeInPulse, pulse.ModePerPulse} {
		t.Fatalf("unexpected modes %v", h.Modes)
	}
	if h.Enabled != [pulse.MaxSections]bool{true, true, true} {
		t.Fatalf("unexpected enabled flags %v", h.Enabled)
	}
	if h.SleepTime != 0.2 || h.Reserved != 7 || h.SpeedFactor != 2 {
		t.Fatalf("unexpected trailing fields: sleep=%v reserved=%d speed=%d", h.SleepTime, h.Reserved, h.SpeedFactor)
	}
}

func TestDecodeHeaderSectionOneIgnoresFlags(t *testing.T) {
	header := "0,0,0,0,0,0,3,3,3,0,0,0,1,1,1,0,2,0,0,1"
	h, err := pulse.DecodeHeader(header)
	if err != nil {
		t.Fatalf("DecodeHeader returned error: %v", err)
	}
	if h.Enabled != [pulse.MaxSections]bool{true, false, false} {
		t.Fatalf("unexpected enabled flags %v", h.Enabled)
	}
}

func TestDecodeHeaderUnknownModeIsUnset(t *testing.T) {
	header := "0,0,0,0,0,0,3,3,3,0,0,0,0,9,1,0,0,0,0,1"
	h, err := pulse.DecodeHeader(header)
	if err != nil {
		t.Fatalf("DecodeHeader returned error: %v", err)
	}
	if h.Modes[0] != pulse.ModeUnset || h.Modes[1] != pulse.ModeUnset || h.Modes[2] != pulse.ModeFixed {
		t.Fatalf("unexpected modes %v", h.Modes)
	}
}

func TestDecodeHeaderErrors(t *testing.T) {
	fields := strings.Split(testsupport.SampleHeader, ",")
	withField := func(index int, value string) string {
		cp := append([]string(nil), fields...)
		cp[index] = value
		return strings.Join(cp, ",")
	}
	cases := []struct {
		name   string
		header string
		want   error
	}{
		{name: "too few fields", header: strings.Join(fields[:19], ","), want: pulse.ErrInvalidFormat},
		{name: "empty", header: "", want: pulse.ErrInvalidFormat},
		{name: "non numeric frequency", header: withField(2, "x"), want: pulse.ErrInvalidFormat},
		{name: "empty speed factor", header: withField(19, ""), want: pulse.ErrInvalidFormat},
		{name: "non numeric reserved", header: withField(18, "1.5"), want: pulse.ErrInvalidFormat},
		{name: "duration out of range", header: withField(10, "101"), want: pulse.ErrOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := pulse.DecodeHeader(tc.header); !errors.Is(err, tc.want) {
				t.Fatalf("DecodeHeader error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDecodeHeaderIgnoresExtraFields(t *testing.T) {
	if _, err := pulse.DecodeHeader(testsupport.SampleHeader + ",99,abc"); err != nil {
		t.Fatalf("DecodeHeader returned error: %v", err)
	}
}

func TestSleepTimeFromSlider(t *testing.T) {
	cases := []struct {
		raw  int
		want float64
	}{
		{0, 0},
		{1, 0.1},
		{10, 0.1},
		{11, 0.2},
		{20, 0.2},
		{21, 0.3},
		{100, 1.0},
		{-9, 0},
		{-10, -0.1},
		{-11, -0.1},
	}
	for _, tc := range cases {
		if got := pulse.SleepTimeFromSlider(tc.raw); got != tc.want {
			t.Fatalf("SleepTimeFromSlider(%d) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestModeFromCode(t *testing.T) {
	cases := map[int]pulse.FrequencyMode{
		0: pulse.ModeUnset,
		1: pulse.ModeFixed,
		2: pulse.ModeInSection,
		3: pulse.ModeInPulse,
		4: pulse.ModePerPulse,
		5: pulse.ModeUnset,
	}
	for code, want := range cases {
		if got := pulse.ModeFromCode(code); got != want {
			t.Fatalf("ModeFromCode(%d) = %q, want %q", code, got, want)
		}
	}
	if pulse.ModeFixed.Modulated() || pulse.ModeUnset.Modulated() || !pulse.ModePerPulse.Modulated() {
		t.Fatal("unexpected Modulated results")
	}
}
