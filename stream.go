// seehuhn.de/go/zpl - an interpreter for ZPL label descriptions
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package zpl

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
)

// Stream is a seekable byte cursor over a ZPL input.
//
// A Stream owns its source exclusively.  If the source implements
// [io.Closer], it is closed by [Stream.Close].
type Stream struct {
	r    io.ReadSeeker
	size int64

	buf       []byte
	start     int64 // source offset of buf[0]
	pos, used int
	atEOF     bool

	// err is the first error returned by r.Read().  It is cleared whenever
	// the source is repositioned.
	err error

	closed bool
}

// NewStream returns a new Stream which reads from r, starting at the
// current position of r.
func NewStream(r io.ReadSeeker) (*Stream, error) {
	cur, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, &IOError{Op: "position", Err: err}
	}
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, &IOError{Op: "measure", Err: err}
	}
	_, err = r.Seek(cur, io.SeekStart)
	if err != nil {
		return nil, &IOError{Op: "position", Err: err}
	}

	return &Stream{
		r:     r,
		size:  size,
		buf:   make([]byte, 512),
		start: cur,
	}, nil
}

// NewStreamString returns a Stream which reads from an in-memory string.
func NewStreamString(s string) *Stream {
	return &Stream{
		r:    strings.NewReader(s),
		size: int64(len(s)),
		buf:  make([]byte, 512),
	}
}

// NewStreamBytes returns a Stream which reads from an in-memory buffer.
func NewStreamBytes(data []byte) *Stream {
	return &Stream{
		r:    bytes.NewReader(data),
		size: int64(len(data)),
		buf:  make([]byte, 512),
	}
}

// Open opens the named file for reading.  The caller must close the
// returned stream.
func Open(path string) (*Stream, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Err: err}
	}
	s, err := NewStream(fd)
	if err != nil {
		fd.Close()
		return nil, err
	}
	return s, nil
}

// Size returns the total length of the input in bytes.
func (s *Stream) Size() int64 {
	return s.size
}

// Position returns the offset of the next byte to be read.
func (s *Stream) Position() int64 {
	return s.start + int64(s.pos)
}

// AtEOF reports whether a read has hit the end of the input since the last
// repositioning.
func (s *Stream) AtEOF() bool {
	return s.atEOF
}

// Next returns the next byte and advances the position by one.
// At the end of input, [io.EOF] is returned.
func (s *Stream) Next() (byte, error) {
	b, err := s.Peek()
	if err != nil {
		return 0, err
	}
	s.pos++
	return b, nil
}

// Peek returns the next byte without advancing the position.
// At the end of input, [io.EOF] is returned.
func (s *Stream) Peek() (byte, error) {
	for s.pos >= s.used {
		err := s.refill()
		if err == io.EOF {
			s.atEOF = true
			return 0, io.EOF
		} else if err != nil {
			return 0, &IOError{Op: "read", Err: err}
		}
	}
	return s.buf[s.pos], nil
}

// Seek moves the position by delta bytes relative to the current position.
func (s *Stream) Seek(delta int64) error {
	return s.seekTo(s.Position() + delta)
}

// Reset moves the position back to the start of the input.
func (s *Stream) Reset() error {
	return s.seekTo(0)
}

// Close releases the underlying source.  Calling Close more than once is
// allowed.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.r.(io.Closer); ok {
		err := c.Close()
		if err != nil {
			return &IOError{Op: "close", Err: err}
		}
	}
	return nil
}

func (s *Stream) seekTo(target int64) error {
	if target < 0 {
		return &IOError{Op: "seek", Err: errNegativePosition}
	}
	s.atEOF = false

	if target >= s.start && target <= s.start+int64(s.used) {
		s.pos = int(target - s.start)
		return nil
	}

	_, err := s.r.Seek(target, io.SeekStart)
	if err != nil {
		return &IOError{Op: "seek", Err: err}
	}
	s.start = target
	s.pos = 0
	s.used = 0
	s.err = nil
	return nil
}

func (s *Stream) refill() error {
	if s.err != nil {
		return s.err
	}
	s.start += int64(s.pos)
	s.used = copy(s.buf, s.buf[s.pos:s.used])
	s.pos = 0

	for i := 0; i < maxEmptyReads; i++ {
		n, err := s.r.Read(s.buf[s.used:])
		s.used += n
		if err != nil {
			s.err = err
		}
		if n > 0 {
			return nil
		} else if err != nil {
			return err
		}
	}
	s.err = io.ErrNoProgress
	return s.err
}

var errNegativePosition = errors.New("negative position")

const maxEmptyReads = 100
