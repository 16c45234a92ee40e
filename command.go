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
	"strconv"
	"strings"
)

// Name is the canonical, upper-case code of a ZPL command, without the
// prefix character.
type Name string

// Command codes understood by the interpreter.
const (
	StartFormat    Name = "XA"
	EndFormat      Name = "XZ"
	FieldOrigin    Name = "FO"
	Font           Name = "A"
	FontName       Name = "A@"
	FieldData      Name = "FD"
	Code128        Name = "BC"
	FieldSeparator Name = "FS"
	GraphicBox     Name = "GB"
	LabelHome      Name = "LH"
	ChangeFont     Name = "CF"
	BarcodeField   Name = "BY"
	Comment        Name = "FX"
)

// Command is a single parsed ZPL command.
type Command struct {
	Name Name

	// Args holds the comma-separated arguments following the command code.
	// Args is nil if the command has no argument text.
	Args []string
}

// String returns the command code followed by the arguments.  The prefix
// character is not part of a Command and is omitted.
func (c Command) String() string {
	return string(c.Name) + strings.Join(c.Args, ",")
}

// arg returns the i-th argument, or the empty string if the argument is
// missing.
func (c Command) arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// FontSelection is the decoded form of an ^A command, which selects a
// printer-resident font by its one-character code.
type FontSelection struct {
	Code        byte // 0 if omitted
	Orientation byte // 0 if omitted
	Height      int  // in dots, negative if omitted
	Width       int  // in dots, negative if omitted
}

// NamedFont is the decoded form of an ^A@ command, which selects a font by
// its full name.
type NamedFont struct {
	Orientation byte
	Height      int // in dots, negative if omitted
	Width       int // in dots, negative if omitted
	Name        string
}

// Font decodes the arguments of an ^A command.
// Height and width must be non-negative integers, but are not checked
// against the range of valid font sizes.
func (c Command) Font() (FontSelection, error) {
	var f FontSelection
	fo := c.arg(0)
	if len(fo) > 0 {
		f.Code = upper(fo[0])
	}
	if len(fo) > 1 {
		f.Orientation = upper(fo[1])
	}

	var err error
	f.Height, err = dimArg(c.Name, "h", c.arg(1))
	if err != nil {
		return f, err
	}
	f.Width, err = dimArg(c.Name, "w", c.arg(2))
	if err != nil {
		return f, err
	}
	return f, nil
}

// NamedFont decodes the arguments of an ^A@ command.
// The font name is the fourth argument and may itself contain commas.
func (c Command) NamedFont() (NamedFont, error) {
	var f NamedFont
	if o := c.arg(0); len(o) > 0 {
		f.Orientation = upper(o[0])
	}

	var err error
	f.Height, err = dimArg(c.Name, "h", c.arg(1))
	if err != nil {
		return f, err
	}
	f.Width, err = dimArg(c.Name, "w", c.arg(2))
	if err != nil {
		return f, err
	}
	if len(c.Args) > 3 {
		f.Name = strings.Join(c.Args[3:], ",")
	}
	return f, nil
}

// intArg parses a decimal integer argument.  An empty argument gives def.
func intArg(cmd Name, field, s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	x, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ArgumentError{Command: cmd, Field: field, Value: s, Bound: "an integer"}
	}
	return x, nil
}

// dimArg parses a font dimension.  Omitted values are returned as -1.
func dimArg(cmd Name, field, s string) (int, error) {
	x, err := intArg(cmd, field, s, -1)
	if err == nil && x < 0 && s != "" {
		err = &ArgumentError{Command: cmd, Field: field, Value: s, Bound: "non-negative"}
	}
	return x, err
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
