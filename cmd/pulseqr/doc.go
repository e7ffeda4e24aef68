// Package main hosts the pulseqr CLI entrypoint and command graph.
//
// The Cobra command tree decodes single DG-LAB pulse QR codes, batch converts
// a directory of them into a pulse list, manages the local pulse library, and
// scaffolds configuration. Configuration resolution and logger setup live in
// commandContext so subcommands only deal with presentation.
package main
