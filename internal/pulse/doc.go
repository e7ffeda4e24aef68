// Package pulse decodes DG-LAB pulse payloads scanned from QR codes into
// structured waveforms.
//
// A payload travels inside a URL as `...#DGLAB-PULSE#<hex>`. The hex text is a
// gzip stream whose inflated content is base64 text; the decoded plaintext is a
// `+` separated list of one header chunk and up to three section chunks. The
// header carries slider indices that map onto the frequency and duration
// tables in this package, and each section chunk lists per-pulse intensities.
//
// Decode is stateless apart from the immutable lookup tables, so callers may
// run it concurrently for independent payloads. Failures wrap one of
// ErrInvalidFormat, ErrDecompression, or ErrOutOfRange; inspect them with
// errors.Is.
package pulse
