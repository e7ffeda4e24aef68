// Package hexpulse renders decoded waveforms into the frame strings consumed
// by Coyote Game Hub style controllers.
//
// A frame covers 100 ms and is split into four 25 ms subframes. Each frame is
// sixteen uppercase hex characters: four frequency bytes followed by four
// intensity bytes.
package hexpulse
