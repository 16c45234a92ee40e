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
	"log/slog"
)

// Options control the conversion of a ZPL label.
// The zero value describes a 4x6 inch label printed at 8 dots/mm.
type Options struct {
	Width  float64 // label width in mm
	Height float64 // label height in mm
	DPMM   int     // printer resolution in dots per mm

	Logger *slog.Logger
}

var defaultOptions = &Options{
	Width:  101.6,
	Height: 152.4,
	DPMM:   8,
}

func (opt *Options) withDefaults() *Options {
	if opt == nil {
		return defaultOptions
	}
	res := *opt
	if res.Width == 0 {
		res.Width = defaultOptions.Width
	}
	if res.Height == 0 {
		res.Height = defaultOptions.Height
	}
	if res.DPMM == 0 {
		res.DPMM = defaultOptions.DPMM
	}
	return &res
}

// Convert reads a ZPL label from s, draws it on b and returns the
// serialized document.  The caller remains responsible for closing s.
func Convert(s *Stream, b Backend, opt *Options) ([]byte, error) {
	opt = opt.withDefaults()

	cmds, err := Parse(NewLexer(s))
	if err != nil {
		return nil, err
	}

	intp, err := NewInterpreter(b, opt.Width, opt.Height, opt.DPMM)
	if err != nil {
		return nil, err
	}
	intp.Logger = opt.Logger

	err = intp.Run(cmds)
	if err != nil {
		return nil, err
	}
	return intp.Finalize()
}

// ConvertString converts the ZPL label given as a string.
func ConvertString(zpl string, b Backend, opt *Options) ([]byte, error) {
	return Convert(NewStreamString(zpl), b, opt)
}

// ConvertFile converts the ZPL label stored in the named file.
func ConvertFile(path string, b Backend, opt *Options) ([]byte, error) {
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return Convert(s, b, opt)
}
