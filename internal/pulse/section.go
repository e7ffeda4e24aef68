package pulse

import (
	"fmt"
	"strconv"
	"strings"
)

// intensityScale converts a token value into an intensity sample.
const intensityScale = 5

// DecodePulses expands a section chunk into intensity samples and pads the
// result with zeros up to declared. Longer sequences are kept as they are; a
// negative declared count pads nothing and one above MaxPulseCount is
// ErrOutOfRange.
//
// Tokens are either `V` or `R-V`. Only V contributes: each token yields exactly
// one sample of V*5 and the leading R is never used to repeat the sample.
func DecodePulses(chunk string, declared int) ([]int, error) {
	if declared > MaxPulseCount {
		return nil, wrap(ErrOutOfRange, "pulse",
			fmt.Sprintf("declared count %d exceeds %d", declared, MaxPulseCount), nil)
	}
	tokens := strings.Split(chunk, fieldSeparator)
	samples := make([]int, 0, max(len(tokens), declared))
	for i, token := range tokens {
		value, err := tokenValue(token)
		if err != nil {
			return nil, wrap(ErrInvalidFormat, "pulse",
				fmt.Sprintf("token %d (%q)", i, token), err)
		}
		samples = append(samples, value*intensityScale)
	}
	for len(samples) < declared {
		samples = append(samples, 0)
	}
	return samples, nil
}

func tokenValue(token string) (int, error) {
	parts := strings.Split(token, "-")
	text := parts[0]
	if len(parts) > 1 {
		text = parts[1]
	}
	return strconv.Atoi(strings.TrimSpace(text))
}
