// Package library persists generated pulses in SQLite so earlier batch runs
// can be listed, inspected, and pruned without rescanning their QR images.
//
// The schema is embedded and versioned. A database created by a different
// schema version is rejected with ErrSchemaMismatch rather than migrated.
package library
