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

// Backend receives the drawing operations produced by an [Interpreter] and
// turns them into an output document.
//
// All lengths are in millimeters, measured from the top left corner of the
// label.  Font sizes are in PDF points.
type Backend interface {
	// CreateDocument starts a new document with a single page of the given
	// size.  It is called exactly once, before any other method.
	CreateDocument(width, height float64) error

	// MoveCursor sets the origin of the next field.
	MoveCursor(x, y float64)

	// SetFontSize sets the font size used by DrawText.
	SetFontSize(pt float64)

	// DrawText draws s with its top left corner at the cursor.
	DrawText(s string) error

	// DrawRect draws the outline of a box.  The border of the given
	// thickness lies inside the box.
	DrawRect(x, y, w, h, thickness float64, c Color) error

	// DrawBarcode draws a barcode with its top left corner at the cursor.
	DrawBarcode(b *Barcode) error

	// Serialize returns the finished document.
	Serialize() ([]byte, error)
}

// DeviceBackend is implemented by backends which render at the printer
// resolution.  [NewInterpreter] calls SetResolution before CreateDocument,
// so that the backend always uses the same resolution as the interpreter.
type DeviceBackend interface {
	Backend
	SetResolution(dpmm int)
}

// Color is a line color of a graphic element.
type Color int

// These are the colors supported by ^GB.
const (
	Black Color = iota
	White
)

func (c Color) String() string {
	switch c {
	case Black:
		return "B"
	case White:
		return "W"
	default:
		return "?"
	}
}

// Barcode describes a Code 128 barcode captured between ^BC and ^FS.
type Barcode struct {
	Content string

	// Args are the unprocessed arguments of the ^BC command.
	Args []string

	Orientation byte    // one of 'N', 'R', 'I', 'B'
	Height      float64 // bar height in mm
	ModuleWidth float64 // width of the narrowest bar in mm
	Ratio       float64 // wide to narrow bar ratio, unused for Code 128

	// Interpretation indicates that the human readable text should be
	// printed.  If InterpretationAbove is set, it goes above the bars.
	Interpretation      bool
	InterpretationAbove bool

	CheckDigit bool // UCC check digit
	Mode       byte // one of 'N', 'U', 'A', 'D'
}
