package hexpulse

import (
	"encoding/hex"
	"math"
	"strings"

	"pulseqr/internal/pulse"
)

const (
	// SubframesPerFrame is the number of 25 ms slots in one frame.
	SubframesPerFrame = 4
	// SubframesPerSecond follows from the 25 ms subframe length.
	SubframesPerSecond = 40
	// FramesPerSecond follows from the 100 ms frame length.
	FramesPerSecond = 10

	minFrequencyByte = 10
	maxFrequencyByte = 240
	maxIntensity     = 100
)

// Encode renders every section of the waveform followed by the sleep gap.
// A nil or empty waveform yields no frames.
func Encode(w *pulse.Waveform) []string {
	if w == nil {
		return nil
	}
	var frames []string
	for _, section := range w.Sections {
		frames = append(frames, EncodeSection(section)...)
	}
	frames = append(frames, sleepFrames(w.SleepTime)...)
	return frames
}

// EncodeSection renders one section. The pulse samples are repeated until
// the section time is covered, at least once, and the tail is filled to a
// whole frame by continuing the cycle.
func EncodeSection(section pulse.Section) []string {
	samples := section.Pulse
	n := len(samples)
	if n == 0 {
		return nil
	}

	needed := ceilUnits(section.SectionTime, SubframesPerSecond)
	passes := max(1, (needed+n-1)/n)
	total := roundUp(passes*n, SubframesPerFrame)
	totalPasses := (total + n - 1) / n

	frames := make([]string, 0, total/SubframesPerFrame)
	var buf [SubframesPerFrame * 2]byte
	for start := 0; start < total; start += SubframesPerFrame {
		for slot := range SubframesPerFrame {
			k := start + slot
			hz := subframeFrequency(section.Freq, section.FreqMode, k, total, k%n, n, k/n, totalPasses)
			buf[slot] = byte(FrequencyToByte(hz))
			buf[SubframesPerFrame+slot] = byte(clamp(samples[k%n], 0, maxIntensity))
		}
		frames = append(frames, strings.ToUpper(hex.EncodeToString(buf[:])))
	}
	return frames
}

// FrequencyToByte compresses a frequency in Hz onto the controller's byte
// scale: 10..100 unchanged, 101..600 in steps of 5, 601..1000 in steps of 10.
func FrequencyToByte(hz int) int {
	var v int
	switch {
	case hz <= 100:
		v = hz
	case hz <= 600:
		v = (hz-100)/5 + 100
	default:
		v = (hz-600)/10 + 200
	}
	return clamp(v, minFrequencyByte, maxFrequencyByte)
}

func subframeFrequency(freq pulse.Frequency, mode pulse.FrequencyMode, k, total, pos, n, pass, passes int) int {
	if !freq.Pair {
		return freq.Min
	}
	switch mode {
	case pulse.ModeInSection:
		return lerp(freq.Min, freq.Max, k, total)
	case pulse.ModeInPulse:
		return lerp(freq.Min, freq.Max, pos, n)
	case pulse.ModePerPulse:
		return lerp(freq.Min, freq.Max, pass, passes)
	default:
		return freq.Min
	}
}

func sleepFrames(seconds float64) []string {
	count := ceilUnits(seconds, FramesPerSecond)
	if count <= 0 {
		return nil
	}
	silent := strings.Repeat("0A", SubframesPerFrame) + strings.Repeat("00", SubframesPerFrame)
	frames := make([]string, count)
	for i := range frames {
		frames[i] = silent
	}
	return frames
}

// lerp steps from a to b over steps positions, hitting both ends.
func lerp(a, b, i, steps int) int {
	if steps <= 1 {
		return a
	}
	return a + int(math.Round(float64(b-a)*float64(i)/float64(steps-1)))
}

// ceilUnits converts seconds into whole units, absorbing float noise from
// values such as 0.3 * 40.
func ceilUnits(seconds float64, perSecond int) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Ceil(seconds*float64(perSecond) - 1e-9))
}

func roundUp(v, multiple int) int {
	return (v + multiple - 1) / multiple * multiple
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
