// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package waveform

import (
	"encoding/json"

	"github.com/db47h/comphdl"
)

// Signal is one WaveDrom signal lane.
//
type Signal struct {
	Name string `json:"name"`
	Wave string `json:"wave"`
}

// Foot is a WaveDrom header or footer. Tick is the number of the first tick
// mark.
//
type Foot struct {
	Text string  `json:"text,omitempty"`
	Tick *uint64 `json:"tick,omitempty"`
}

// WaveJSON records the boundary signals of a network in WaveDrom's JSON
// format: one lane per input and output, one character per sample. Only the
// most recent samples are kept if a buffer length is set.
//
type WaveJSON struct {
	Signal []Signal `json:"signal"`
	Head   Foot     `json:"head"`
	Foot   Foot     `json:"foot"`

	s   *comphdl.Structural
	max int
}

// NewWaveJSON returns a new WaveJSON for s with an unlimited buffer.
//
func NewWaveJSON(s *comphdl.Structural) *WaveJSON {
	pn := s.PortNames()
	w := &WaveJSON{s: s, Head: Foot{Tick: new(uint64)}}
	for _, ports := range [][]string{pn.Inputs, pn.Outputs} {
		for _, p := range ports {
			w.Signal = append(w.Signal, Signal{Name: p})
		}
	}
	return w
}

// SetBufferLen limits each lane to the last n samples. n <= 0 means unlimited.
//
func (w *WaveJSON) SetBufferLen(n int) { w.max = n }

func waveChar(b comphdl.Bit) byte {
	switch b {
	case comphdl.L:
		return 'l'
	case comphdl.H:
		return 'h'
	}
	return 'x'
}

// lastValue returns the last non repeat character in wave, or 'x'.
//
func lastValue(wave string) byte {
	for i := len(wave) - 1; i >= 0; i-- {
		if wave[i] != '.' {
			return wave[i]
		}
	}
	return 'x'
}

// Update appends the current boundary values of the network.
//
func (w *WaveJSON) Update() {
	vs := append(w.s.Input(), w.s.Output()...)
	removed := 0
	for i, b := range vs {
		sig := &w.Signal[i]
		c := waveChar(b)
		if c == lastValue(sig.Wave) {
			c = '.'
		}
		sig.Wave += string(c)
		if n := sig.keepLast(w.max); n > removed {
			removed = n
		}
	}
	*w.Head.Tick += uint64(removed)
}

// keepLast trims the wave to its last n samples and returns the number of
// samples removed.
//
func (s *Signal) keepLast(n int) int {
	if n <= 0 || len(s.Wave) <= n {
		return 0
	}
	cut := len(s.Wave) - n
	head, tail := s.Wave[:cut], []byte(s.Wave[cut:])
	if tail[0] == '.' {
		tail[0] = lastValue(head)
	}
	s.Wave = string(tail)
	return cut
}

// JSON returns the JSON encoding of w.
//
func (w *WaveJSON) JSON() ([]byte, error) {
	return json.Marshal(w)
}
