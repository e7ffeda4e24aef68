package pulse

// FrequencyMode describes how a section's frequency is specified.
type FrequencyMode string

const (
	// ModeUnset is used when the header carries an unknown mode code.
	ModeUnset     FrequencyMode = ""
	ModeFixed     FrequencyMode = "fixed"
	ModeInSection FrequencyMode = "inSection"
	ModeInPulse   FrequencyMode = "inPulse"
	ModePerPulse  FrequencyMode = "perPulse"
)

// ModeFromCode maps a header mode code onto a FrequencyMode.
func ModeFromCode(code int) FrequencyMode {
	switch code {
	case 1:
		return ModeFixed
	case 2:
		return ModeInSection
	case 3:
		return ModeInPulse
	case 4:
		return ModePerPulse
	default:
		return ModeUnset
	}
}

// Modulated reports whether the mode carries a (min, max) frequency pair.
func (m FrequencyMode) Modulated() bool {
	switch m {
	case ModeInSection, ModeInPulse, ModePerPulse:
		return true
	default:
		return false
	}
}

func (m FrequencyMode) String() string {
	if m == ModeUnset {
		return "unset"
	}
	return string(m)
}
