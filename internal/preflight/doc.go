// Package preflight provides readiness checks for the filesystem paths
// pulseqr writes to.
//
// `pulseqr config validate` prints every result. `pulseqr generate` runs the
// same checks before scanning so a read-only output directory is reported
// before any image is decoded.
package preflight
