// Package config loads, normalizes, and validates pulseqr configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PULSEQR_LIBRARY_DB. The Config type centralizes every knob the CLI needs:
// where the pulse library lives, how QR images are scanned, how large a
// payload may inflate, and how logs are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
