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
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"seehuhn.de/go/geom/vec"
)

type handler func(intp *Interpreter, c Command) error

// commands maps command codes to their implementation.  Codes which are not
// listed here are ignored by [Interpreter.Dispatch].
var commands = map[Name]handler{
	StartFormat:    cNop,
	EndFormat:      cNop,
	Comment:        cNop,
	FieldOrigin:    cFieldOrigin,
	Font:           cFont,
	FontName:       cFontName,
	FieldData:      cFieldData,
	Code128:        cCode128,
	FieldSeparator: cFieldSeparator,
	GraphicBox:     cGraphicBox,
	LabelHome:      cLabelHome,
	ChangeFont:     cChangeFont,
	BarcodeField:   cBarcodeField,
}

// SupportedCommands returns the codes of all commands which have an effect,
// in sorted order.
func SupportedCommands() []Name {
	names := maps.Keys(commands)
	slices.Sort(names)
	return names
}

const maxDots = 32000

func cNop(*Interpreter, Command) error {
	return nil
}

// ^FOx,y
func cFieldOrigin(intp *Interpreter, c Command) error {
	x, err := intRange(c.Name, "x", c.arg(0), 0, 0, maxDots)
	if err != nil {
		return err
	}
	y, err := intRange(c.Name, "y", c.arg(1), 0, 0, maxDots)
	if err != nil {
		return err
	}

	intp.moveTo(vec.Vec2{
		X: intp.home.X + intp.mm(x),
		Y: intp.home.Y + intp.mm(y),
	})
	if intp.phase == Idle {
		intp.phase = FieldOpen
	}
	return nil
}

// ^Afo,h,w
func cFont(intp *Interpreter, c Command) error {
	f, err := c.Font()
	if err != nil {
		return err
	}
	size, err := intp.fontSizeFromDots(c.Name, f.Height, f.Width)
	if err != nil {
		return err
	}

	intp.setFontSize(size)
	intp.fieldFont = true
	return nil
}

// fontSizeFromDots converts font dimensions in dots to a font size in
// points.  The width takes precedence over the height, if both are given.
// Negative values indicate omitted arguments.
func (intp *Interpreter) fontSizeFromDots(cmd Name, h, w int) (float64, error) {
	if h < 0 && w < 0 {
		h = 10
	}
	if h >= 0 && (h < 10 || h > maxDots) {
		return 0, rangeError(cmd, "h", strconv.Itoa(h), 10, maxDots)
	}
	if w >= 0 && (w < 10 || w > maxDots) {
		return 0, rangeError(cmd, "w", strconv.Itoa(w), 10, maxDots)
	}

	dots := h
	if w >= 0 {
		dots = w
	}
	return MMToPoints(intp.mm(dots)), nil
}

// ^A@o,h,w,d
func cFontName(intp *Interpreter, c Command) error {
	// TODO(voss): map font names to PDF fonts
	f, err := c.NamedFont()
	if err != nil {
		intp.debug("malformed font name command", "command", c.String(), "error", err)
		return nil
	}
	intp.debug("font selection by name is not supported", "font", f.Name)
	return nil
}

// ^FDa
func cFieldData(intp *Interpreter, c Command) error {
	// The parser splits all arguments at commas, but field data is a
	// single string.
	data := strings.Join(c.Args, ",")

	if intp.phase == BarcodePending {
		intp.pending.Content = data
		return nil
	}
	return intp.b.DrawText(data)
}

// ^BCo,h,f,g,e,m
func cCode128(intp *Interpreter, c Command) error {
	o, err := oneOf(c.Name, "o", c.arg(0), "NRIB", 'N')
	if err != nil {
		return err
	}
	h, err := intRange(c.Name, "h", c.arg(1), intp.by.height, 1, maxDots)
	if err != nil {
		return err
	}
	f, err := oneOf(c.Name, "f", c.arg(2), "YN", 'Y')
	if err != nil {
		return err
	}
	g, err := oneOf(c.Name, "g", c.arg(3), "YN", 'N')
	if err != nil {
		return err
	}
	e, err := oneOf(c.Name, "e", c.arg(4), "YN", 'N')
	if err != nil {
		return err
	}
	m, err := oneOf(c.Name, "m", c.arg(5), "NUAD", 'N')
	if err != nil {
		return err
	}

	intp.pending = &Barcode{
		Args:                slices.Clone(c.Args),
		Orientation:         o,
		Height:              intp.mm(h),
		ModuleWidth:         intp.mm(intp.by.moduleWidth),
		Ratio:               intp.by.ratio,
		Interpretation:      f == 'Y',
		InterpretationAbove: g == 'Y',
		CheckDigit:          e == 'Y',
		Mode:                m,
	}
	intp.phase = BarcodePending
	return nil
}

// ^FS
func cFieldSeparator(intp *Interpreter, c Command) error {
	return intp.endField()
}

// ^GBw,h,t,c,r
func cGraphicBox(intp *Interpreter, c Command) error {
	t, err := intRange(c.Name, "t", c.arg(2), 1, 1, maxDots)
	if err != nil {
		return err
	}
	w, err := intRange(c.Name, "w", c.arg(0), t, t, maxDots)
	if err != nil {
		return err
	}
	h, err := intRange(c.Name, "h", c.arg(1), t, t, maxDots)
	if err != nil {
		return err
	}
	col, err := oneOf(c.Name, "c", c.arg(3), "BW", 'B')
	if err != nil {
		return err
	}
	_, err = intRange(c.Name, "r", c.arg(4), 0, 0, 8)
	if err != nil {
		return err
	}

	color := Black
	if col == 'W' {
		color = White
	}
	return intp.b.DrawRect(intp.cursor.X, intp.cursor.Y,
		intp.mm(w), intp.mm(h), intp.mm(t), color)
}

// ^LHx,y
func cLabelHome(intp *Interpreter, c Command) error {
	x, err := intRange(c.Name, "x", c.arg(0), 0, 0, maxDots)
	if err != nil {
		return err
	}
	y, err := intRange(c.Name, "y", c.arg(1), 0, 0, maxDots)
	if err != nil {
		return err
	}

	intp.home = vec.Vec2{X: intp.mm(x), Y: intp.mm(y)}
	if intp.phase == Idle {
		intp.moveTo(intp.home)
	}
	return nil
}

// ^CFf,h,w
func cChangeFont(intp *Interpreter, c Command) error {
	h, err := dimArg(c.Name, "h", c.arg(1))
	if err != nil {
		return err
	}
	w, err := dimArg(c.Name, "w", c.arg(2))
	if err != nil {
		return err
	}
	if h < 0 && w < 0 {
		return nil
	}
	size, err := intp.fontSizeFromDots(c.Name, h, w)
	if err != nil {
		return err
	}

	intp.defaultFontSize = size
	if !intp.fieldFont {
		intp.setFontSize(size)
	}
	return nil
}

// ^BYw,r,h
func cBarcodeField(intp *Interpreter, c Command) error {
	by := intp.by

	var err error
	by.moduleWidth, err = intRange(c.Name, "w", c.arg(0), by.moduleWidth, 1, 10)
	if err != nil {
		return err
	}
	if s := c.arg(1); s != "" {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil || r < 2 || r > 3 {
			return &ArgumentError{Command: c.Name, Field: "r", Value: s, Bound: "in [2.0, 3.0]"}
		}
		by.ratio = r
	}
	by.height, err = intRange(c.Name, "h", c.arg(2), by.height, 1, maxDots)
	if err != nil {
		return err
	}

	intp.by = by
	return nil
}

// intRange parses an integer argument and checks that it lies in the range
// [lo, hi].  An empty argument gives def, which is not checked.
func intRange(cmd Name, field, s string, def, lo, hi int) (int, error) {
	x, err := intArg(cmd, field, s, def)
	if err != nil {
		return 0, err
	}
	if s != "" && (x < lo || x > hi) {
		return 0, rangeError(cmd, field, s, lo, hi)
	}
	return x, nil
}

// oneOf checks that a single-character argument is one of the characters in
// valid.  Lower case letters are accepted.  An empty argument gives def.
func oneOf(cmd Name, field, s string, valid string, def byte) (byte, error) {
	if s == "" {
		return def, nil
	}
	if len(s) == 1 && strings.IndexByte(valid, upper(s[0])) >= 0 {
		return upper(s[0]), nil
	}

	choices := make([]string, len(valid))
	for i := range valid {
		choices[i] = valid[i : i+1]
	}
	return 0, &ArgumentError{
		Command: cmd,
		Field:   field,
		Value:   s,
		Bound:   fmt.Sprintf("one of %s", strings.Join(choices, ", ")),
	}
}
