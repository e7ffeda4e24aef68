package batch

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var numericPrefix = regexp.MustCompile(`^\d+[-_ ]`)

// PulseName derives a display name from an image file name: the extension is
// dropped, full-width ASCII is folded, the text is NFC-normalized, and an
// ordering prefix such as "01-" is removed when stripPrefix is set.
func PulseName(fileName string, stripPrefix bool) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := norm.NFC.String(width.Fold.String(base))
	if stripPrefix {
		if stripped := numericPrefix.ReplaceAllString(name, ""); strings.TrimSpace(stripped) != "" {
			name = stripped
		}
	}
	return strings.TrimSpace(name)
}

// PulseID returns the first eight hex digits of the MD5 of the joined frames.
func PulseID(frames []string) string {
	sum := md5.Sum([]byte(strings.Join(frames, "")))
	return hex.EncodeToString(sum[:])[:8]
}
