// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// A ByteSource is a byte stream shared by Stdin bridges. At most one borrower
// can use it at any given time; a bridge that fails to borrow it outputs X.
//
type ByteSource struct {
	mu sync.Mutex
	r  io.ByteReader
}

// NewByteSource returns a new ByteSource reading from r. If r does not
// implement io.ByteReader, it is buffered.
//
func NewByteSource(r io.Reader) *ByteSource {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &ByteSource{r: br}
}

// Borrow locks the source for exclusive use. If the source is already
// borrowed, ok is false. Otherwise the caller must call release when done.
//
func (s *ByteSource) Borrow() (r io.ByteReader, release func(), ok bool) {
	if !s.mu.TryLock() {
		return nil, nil, false
	}
	return s.r, s.mu.Unlock, true
}

// A ByteSink is a byte stream shared by Stdout bridges. Like ByteSource, it
// can only be borrowed by one user at a time.
//
type ByteSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewByteSink returns a new ByteSink writing to w. If w has a Flush method, it
// is called after each byte written by a bridge.
//
func NewByteSink(w io.Writer) *ByteSink {
	return &ByteSink{w: w}
}

// Borrow locks the sink for exclusive use. See ByteSource.Borrow.
//
func (s *ByteSink) Borrow() (w io.Writer, release func(), ok bool) {
	if !s.mu.TryLock() {
		return nil, nil, false
	}
	return s.w, s.mu.Unlock, true
}

type flusher interface {
	Flush() error
}

var (
	stdinOnce  sync.Once
	stdinSrc   *ByteSource
	stdoutOnce sync.Once
	stdoutSink *ByteSink
)

// DefaultSource returns the ByteSource wrapping os.Stdin.
//
func DefaultSource() *ByteSource {
	stdinOnce.Do(func() { stdinSrc = NewByteSource(os.Stdin) })
	return stdinSrc
}

// DefaultSink returns the ByteSink wrapping os.Stdout.
//
func DefaultSink() *ByteSink {
	stdoutOnce.Do(func() { stdoutSink = NewByteSink(os.Stdout) })
	return stdoutSink
}

// Stdin reads one byte from a ByteSource on each rising edge of its clock.
//
//	Inputs: clk
//	Outputs: EOF, x7, x6, x5, x4, x3, x2, x1, x0
//
// Outputs are X until the first rising edge. On each rising edge, EOF goes L
// and x7..x0 take the value of the next byte. Once the source is exhausted,
// EOF stays H and the data lines go X. If the source is borrowed elsewhere
// during an edge, EOF goes L and the data lines are X for that edge.
//
type Stdin struct {
	src     *ByteSource
	lastClk Bit
	out     []Bit
}

// NewStdin returns a new input bridge reading from src. If src is nil,
// DefaultSource() is used.
//
func NewStdin(src *ByteSource) *Stdin {
	if src == nil {
		src = DefaultSource()
	}
	return &Stdin{src: src, lastClk: X, out: Unknown(9)}
}

func (*Stdin) component() {}

// Tick implements Component.
//
func (s *Stdin) Tick(in []Bit) []Bit {
	checkInputs(s, in)
	clk := in[0]
	if s.lastClk == L && clk == H {
		s.read()
	}
	s.lastClk = clk
	return append([]Bit(nil), s.out...)
}

func (s *Stdin) read() {
	data := s.out[1:]
	if s.out[0] == H {
		// EOF is sticky
		return
	}
	s.out[0] = L
	r, release, ok := s.src.Borrow()
	if !ok {
		copy(data, Unknown(8))
		return
	}
	defer release()
	b, err := r.ReadByte()
	if err != nil {
		s.out[0] = H
		copy(data, Unknown(8))
		return
	}
	copy(data, ByteToBits(b))
}

// NumInputs implements Component.
func (*Stdin) NumInputs() int { return 1 }

// NumOutputs implements Component.
func (*Stdin) NumOutputs() int { return 9 }

// Name implements Component.
func (*Stdin) Name() string { return StdinName }

// PortNames implements Component.
func (*Stdin) PortNames() PortNames {
	return PortNames{
		Inputs:  []string{"clk"},
		Outputs: []string{"EOF", "x7", "x6", "x5", "x4", "x3", "x2", "x1", "x0"},
	}
}

// AlwaysDirty implements Component.
func (*Stdin) AlwaysDirty() bool { return false }

// Clone implements Component. The clone shares the same ByteSource.
//
func (s *Stdin) Clone() Component {
	return &Stdin{src: s.src, lastClk: s.lastClk, out: append([]Bit(nil), s.out...)}
}

// Stdout writes one byte to a ByteSink on each rising edge of its clock.
//
//	Inputs: clk, x7, x6, x5, x4, x3, x2, x1, x0
//
// A byte with any X data bit is never written; it is counted as dropped
// instead. So are bytes that cannot be written because the sink is borrowed
// or returned an error.
//
type Stdout struct {
	sink    *ByteSink
	lastClk Bit
	written int
	dropped int
}

// NewStdout returns a new output bridge writing to sink. If sink is nil,
// DefaultSink() is used.
//
func NewStdout(sink *ByteSink) *Stdout {
	if sink == nil {
		sink = DefaultSink()
	}
	return &Stdout{sink: sink, lastClk: X}
}

func (*Stdout) component() {}

// Tick implements Component.
//
func (s *Stdout) Tick(in []Bit) []Bit {
	checkInputs(s, in)
	clk := in[0]
	if s.lastClk == L && clk == H {
		s.write(in[1:])
	}
	s.lastClk = clk
	return nil
}

func (s *Stdout) write(data []Bit) {
	b, ok := BitsToByte(data)
	if !ok {
		s.dropped++
		return
	}
	w, release, ok := s.sink.Borrow()
	if !ok {
		s.dropped++
		return
	}
	defer release()
	if _, err := w.Write([]byte{b}); err != nil {
		s.dropped++
		return
	}
	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			s.dropped++
			return
		}
	}
	s.written++
}

// Written returns the number of bytes written so far.
//
func (s *Stdout) Written() int { return s.written }

// Dropped returns the number of rising edges that did not result in a write.
//
func (s *Stdout) Dropped() int { return s.dropped }

// NumInputs implements Component.
func (*Stdout) NumInputs() int { return 9 }

// NumOutputs implements Component.
func (*Stdout) NumOutputs() int { return 0 }

// Name implements Component.
func (*Stdout) Name() string { return StdoutName }

// PortNames implements Component.
func (*Stdout) PortNames() PortNames {
	return PortNames{
		Inputs: []string{"clk", "x7", "x6", "x5", "x4", "x3", "x2", "x1", "x0"},
	}
}

// AlwaysDirty implements Component.
func (*Stdout) AlwaysDirty() bool { return false }

// Clone implements Component. The clone shares the same ByteSink.
//
func (s *Stdout) Clone() Component {
	c := *s
	return &c
}
