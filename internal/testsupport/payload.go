package testsupport

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/klauspost/compress/gzip"

	"pulseqr/internal/pulse"
)

// SampleHeader enables section 1 only: slider 0 frequencies, three pulses,
// 0.1 s section time, fixed frequency mode, no sleep, speed factor 1.
const SampleHeader = "0,0,0,0,0,0,3,3,3,0,0,0,1,1,1,0,0,0,0,1"

// SampleURLPrefix mimics the download link that precedes the marker in real QR codes.
const SampleURLPrefix = "https://dungeon-lab.com/app-download.php"

// PayloadURL wraps plaintext exactly like the DG-LAB app does: base64, gzip,
// hex, appended to a URL after the pulse marker.
func PayloadURL(t testing.TB, plaintext string) string {
	t.Helper()
	return SampleURLPrefix + pulse.Marker + hex.EncodeToString(Gzip(t, []byte(base64.StdEncoding.EncodeToString([]byte(plaintext)))))
}

// Gzip compresses data and fails the test on error.
func Gzip(t testing.TB, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}
