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
	"fmt"
)

// LexicalError is returned when a command is expected at a position which
// does not start with one of the prefix characters '^' or '~'.
type LexicalError struct {
	Offset int64 // 0-based byte offset into the input
	Byte   byte
}

func (err *LexicalError) Error() string {
	return fmt.Sprintf("zpl: unexpected byte %q at offset %d, expected '^' or '~'",
		err.Byte, err.Offset)
}

// StructuralError indicates that the label is not correctly enclosed in a
// single ^XA ... ^XZ pair.
type StructuralError struct {
	// Which is one of "start", "end", "nested" or "empty".
	Which string
	Name  Name
}

func (err *StructuralError) Error() string {
	switch err.Which {
	case "start":
		return fmt.Sprintf("zpl: label must start with ^%s, found ^%s", StartFormat, err.Name)
	case "end":
		return fmt.Sprintf("zpl: label must end with ^%s, found ^%s", EndFormat, err.Name)
	case "nested":
		return fmt.Sprintf("zpl: unexpected ^%s inside label", err.Name)
	default:
		return "zpl: no commands found"
	}
}

// ArgumentError is returned when a command argument is malformed or outside
// the range allowed for it.
type ArgumentError struct {
	Command Name
	Field   string
	Value   string
	Bound   string
}

func (err *ArgumentError) Error() string {
	return fmt.Sprintf("zpl: ^%s: %s=%q must be %s", err.Command, err.Field, err.Value, err.Bound)
}

// IOError indicates that the underlying input could not be measured,
// positioned or read.
type IOError struct {
	Op  string
	Err error
}

func (err *IOError) Error() string {
	return "zpl: " + err.Op + ": " + err.Err.Error()
}

func (err *IOError) Unwrap() error {
	return err.Err
}

// CommandError records the command which was being executed when an error
// was returned by a command handler or by the rendering backend.
type CommandError struct {
	Command Name
	Err     error
}

func (err *CommandError) Error() string {
	return fmt.Sprintf("zpl: ^%s: %v", err.Command, err.Err)
}

func (err *CommandError) Unwrap() error {
	return err.Err
}

func rangeError(cmd Name, field string, value string, lo, hi int) error {
	return &ArgumentError{
		Command: cmd,
		Field:   field,
		Value:   value,
		Bound:   fmt.Sprintf("in [%d, %d]", lo, hi),
	}
}
