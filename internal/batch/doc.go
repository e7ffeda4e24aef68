// Package batch turns a directory of pulse QR images into a pulse list.
//
// Processor.Run scans the directory, decodes images concurrently, and keeps
// going past images that fail. Results come back in file name order so the
// written list is stable across runs. WriteFile persists the list as indented
// JSON, which every JSON5 reader accepts.
package batch
