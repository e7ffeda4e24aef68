package pulse_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"pulseqr/internal/pulse"
	"pulseqr/internal/testsupport"
)

func TestDecodeSingleFixedSection(t *testing.T) {
	url := testsupport.PayloadURL(t, testsupport.SampleHeader+"+1,2,3")

	wave, err := pulse.Decode(url)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(wave.Sections) != 1 {
		t.Fatalf("expected one section, got %d", len(wave.Sections))
	}
	section := wave.Sections[0]
	if !reflect.DeepEqual(section.Pulse, []int{5, 10, 15}) {
		t.Fatalf("unexpected pulse %v", section.Pulse)
	}
	if section.SectionTime != 0.1 {
		t.Fatalf("unexpected section time %v", section.SectionTime)
	}
	if section.Freq != pulse.FixedFrequency(10) || section.Freq.Pair {
		t.Fatalf("unexpected frequency %+v", section.Freq)
	}
	if section.FreqMode != pulse.ModeFixed {
		t.Fatalf("unexpected mode %q", section.FreqMode)
	}
	if wave.SleepTime != 0 || wave.SpeedFactor != 1 {
		t.Fatalf("unexpected sleep/speed %v/%d", wave.SleepTime, wave.SpeedFactor)
	}
}

func TestDecodePayloadPadsDeclaredPulseCount(t *testing.T) {
	header := "0,0,0,0,0,0,5,3,3,0,0,0,1,1,1,0,0,0,0,1"
	wave, err := pulse.DecodePayload(header + "+1,2,3")
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if !reflect.DeepEqual(wave.Sections[0].Pulse, []int{5, 10, 15, 0, 0}) {
		t.Fatalf("unexpected pulse %v", wave.Sections[0].Pulse)
	}
}

func TestDecodePayloadRejectsHugePulseCount(t *testing.T) {
	payload := "0,0,0,0,0,0,9000000000000000000,0,0,0,0,0,1,1,1,0,0,0,0,1+1,2,3"
	if _, err := pulse.DecodePayload(payload); !errors.Is(err, pulse.ErrOutOfRange) {
		t.Fatalf("DecodePayload error = %v, want ErrOutOfRange", err)
	}
}

func TestDecodePayloadSkipsDisabledSections(t *testing.T) {
	wave, err := pulse.DecodePayload(testsupport.SampleHeader + "+1+2+3")
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if len(wave.Sections) != 1 {
		t.Fatalf("disabled sections leaked into output: %+v", wave.Sections)
	}
}

func TestDecodePayloadModulatedSections(t *testing.T) {
	header := "1,2,3,4,5,6,2,2,2,0,5,8,2,3,4,1,1,21,0,3"
	wave, err := pulse.DecodePayload(header + "+1,2+3-4+0-5,6")
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	want := &pulse.Waveform{
		Sections: []pulse.Section{
			{Pulse: []int{5, 10}, SectionTime: 0.1, Freq: pulse.RangeFrequency(11, 14), FreqMode: pulse.ModeInSection},
			{Pulse: []int{20, 0}, SectionTime: 0.2, Freq: pulse.RangeFrequency(12, 15), FreqMode: pulse.ModeInPulse},
			{Pulse: []int{25, 30}, SectionTime: 0.3, Freq: pulse.RangeFrequency(13, 16), FreqMode: pulse.ModePerPulse},
		},
		SleepTime:   0.3,
		SpeedFactor: 3,
	}
	if !reflect.DeepEqual(wave, want) {
		t.Fatalf("unexpected waveform:\n got %+v\nwant %+v", wave, want)
	}
}

func TestDecodePayloadMissingChunkIsAbsent(t *testing.T) {
	header := "0,0,0,0,0,0,3,3,3,0,0,0,1,1,1,1,1,0,0,1"
	wave, err := pulse.DecodePayload(header + "+1,2,3+")
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if len(wave.Sections) != 1 {
		t.Fatalf("expected only section 1, got %d sections", len(wave.Sections))
	}
}

func TestDecodePayloadEmptySectionsIsLegal(t *testing.T) {
	wave, err := pulse.DecodePayload(testsupport.SampleHeader + "+")
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if wave.Sections == nil || len(wave.Sections) != 0 {
		t.Fatalf("expected empty, non-nil sections, got %#v", wave.Sections)
	}
}

func TestDecodeUnsetModeKeepsSingleFrequency(t *testing.T) {
	header := "3,0,0,9,0,0,1,0,0,0,0,0,7,1,1,0,0,0,0,1"
	wave, err := pulse.DecodePayload(header + "+4")
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if wave.Sections[0].Freq != pulse.FixedFrequency(13) || wave.Sections[0].FreqMode != pulse.ModeUnset {
		t.Fatalf("unexpected section %+v", wave.Sections[0])
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want error
	}{
		{name: "missing marker", url: "https://example.com/no-marker", want: pulse.ErrInvalidFormat},
		{name: "header only", url: testsupport.PayloadURL(t, testsupport.SampleHeader), want: pulse.ErrInvalidFormat},
		{name: "bad header", url: testsupport.PayloadURL(t, "1,2,3+1"), want: pulse.ErrInvalidFormat},
		{name: "bad token", url: testsupport.PayloadURL(t, testsupport.SampleHeader+"+1,x"), want: pulse.ErrInvalidFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wave, err := pulse.Decode(tc.url)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Decode error = %v, want %v", err, tc.want)
			}
			if wave != nil {
				t.Fatalf("expected no partial waveform, got %+v", wave)
			}
		})
	}
}

func TestWaveformJSONShape(t *testing.T) {
	wave := pulse.Waveform{
		Sections: []pulse.Section{
			{Pulse: []int{5}, SectionTime: 0.1, Freq: pulse.FixedFrequency(10), FreqMode: pulse.ModeFixed},
			{Pulse: []int{0}, SectionTime: 0.2, Freq: pulse.RangeFrequency(10, 20), FreqMode: pulse.ModeInPulse},
		},
		SleepTime:   0.1,
		SpeedFactor: 1,
	}
	data, err := json.Marshal(wave)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(data)
	for _, fragment := range []string{`"freq":10`, `"freq":[10,20]`, `"freqMode":"inPulse"`, `"speedFactor":1`} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %s in %s", fragment, text)
		}
	}

	var back pulse.Waveform
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, wave) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, wave)
	}
}
