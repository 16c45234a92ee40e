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

// Package pdf implements a ZPL rendering backend which produces a
// single-page PDF file.
//
// Text is set in the standard Helvetica-Bold font, so that no font data
// needs to be embedded.  Characters outside the WinAnsi character set are
// replaced by question marks.
package pdf

import (
	"bytes"
	"errors"
	"log/slog"

	"golang.org/x/text/encoding/charmap"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/zpl"
	"seehuhn.de/go/zpl/internal/bars"
)

// Writer collects the drawing operations of a label and serializes them as
// a PDF file.
// Writer implements [zpl.Backend].
type Writer struct {
	// Compress enables compression of the page content.  If Compress is
	// false, the file is written in a human readable form.
	Compress bool

	// Logger, if set, receives diagnostic messages about barcodes which
	// cannot be encoded.
	Logger *slog.Logger

	buf    bytes.Buffer
	page   *document.Page
	height float64 // page height in PDF points
	done   bool

	x, y     float64 // cursor in mm, from the top left corner
	fontSize float64
}

var _ zpl.Backend = (*Writer)(nil)

// New returns a new PDF backend.
func New() *Writer {
	return &Writer{
		Compress: true,
		fontSize: zpl.DefaultFontSize,
	}
}

// CreateDocument implements the [zpl.Backend] interface.
func (w *Writer) CreateDocument(width, height float64) error {
	if w.page != nil {
		return errors.New("pdf: document already created")
	}

	paper := &pdf.Rectangle{
		URx: zpl.MMToPoints(width),
		URy: zpl.MMToPoints(height),
	}
	opt := &pdf.WriterOptions{
		HumanReadable: !w.Compress,
	}
	page, err := document.WriteSinglePage(&w.buf, paper, pdf.V1_7, opt)
	if err != nil {
		return err
	}

	w.page = page
	w.height = paper.URy
	return nil
}

// MoveCursor implements the [zpl.Backend] interface.
func (w *Writer) MoveCursor(x, y float64) {
	w.x = x
	w.y = y
}

// SetFontSize implements the [zpl.Backend] interface.
func (w *Writer) SetFontSize(pt float64) {
	w.fontSize = pt
}

// DrawText implements the [zpl.Backend] interface.
func (w *Writer) DrawText(s string) error {
	if err := w.check(); err != nil {
		return err
	}
	if s == "" {
		return nil
	}

	x := zpl.MMToPoints(w.x)
	y := w.height - zpl.MMToPoints(w.y) - w.fontSize*helveticaBoldAscent

	page := w.page
	page.TextBegin()
	page.TextSetFont(helveticaBold, w.fontSize)
	page.TextFirstLine(x, y)
	page.TextShow(winAnsi(s))
	page.TextEnd()
	return page.Err
}

// DrawRect implements the [zpl.Backend] interface.
//
// If the border is at least half as wide as the box, the box is filled.
// Otherwise the border is stroked along a path inset by half the line
// width, so that the border lies inside the box.
func (w *Writer) DrawRect(x, y, width, height, thickness float64, c zpl.Color) error {
	if err := w.check(); err != nil {
		return err
	}

	col := color.Black
	if c == zpl.White {
		col = color.White
	}

	llx := zpl.MMToPoints(x)
	lly := w.height - zpl.MMToPoints(y+height)
	dx := zpl.MMToPoints(width)
	dy := zpl.MMToPoints(height)
	t := zpl.MMToPoints(thickness)

	page := w.page
	page.PushGraphicsState()
	if 2*t >= dx || 2*t >= dy {
		page.SetFillColor(col)
		page.Rectangle(llx, lly, dx, dy)
		page.Fill()
	} else {
		page.SetStrokeColor(col)
		page.SetLineWidth(t)
		page.Rectangle(llx+t/2, lly+t/2, dx-t, dy-t)
		page.Stroke()
	}
	page.PopGraphicsState()
	return page.Err
}

// DrawBarcode implements the [zpl.Backend] interface.
//
// If the content cannot be represented in Code 128, an empty frame is
// drawn in place of the barcode.
func (w *Writer) DrawBarcode(b *zpl.Barcode) error {
	if err := w.check(); err != nil {
		return err
	}

	bb, modules, err := bars.Code128(b.Content)
	if err != nil {
		if w.Logger != nil {
			w.Logger.Warn("cannot encode barcode", "content", b.Content, "error", err)
		}
		return w.placeholder(b)
	}

	// All sizes below are in mm, in the coordinate system of the unrotated
	// barcode with the origin in the bottom left corner.
	width := float64(modules) * b.ModuleWidth
	total := b.Height
	textSize := interpretationSize
	barBottom := 0.0
	if b.Interpretation {
		total += textSize
		if !b.InterpretationAbove {
			barBottom = textSize
		}
	}

	page := w.page
	page.PushGraphicsState()
	page.Transform(w.fieldMatrix(b.Orientation, width, total))
	for _, bar := range bb {
		page.Rectangle(float64(bar.Start)*b.ModuleWidth, barBottom,
			float64(bar.Width)*b.ModuleWidth, b.Height)
	}
	page.Fill()

	if b.Interpretation {
		baseline := textSize * (1 - helveticaBoldAscent)
		if b.InterpretationAbove {
			baseline = total - textSize*helveticaBoldAscent
		}
		page.TextBegin()
		page.TextSetFont(helveticaBold, textSize)
		page.TextFirstLine(0, baseline)
		page.TextShowAligned(winAnsi(b.Content), width, 0.5)
		page.TextEnd()
	}
	page.PopGraphicsState()
	return page.Err
}

// placeholder draws a frame of the size of a barcode, with the line width
// of one module.
func (w *Writer) placeholder(b *zpl.Barcode) error {
	width := bars.PlaceholderWidth
	t := b.ModuleWidth

	page := w.page
	page.PushGraphicsState()
	page.Transform(w.fieldMatrix(b.Orientation, width, b.Height))
	page.SetLineWidth(t)
	page.Rectangle(t/2, t/2, width-t, b.Height-t)
	page.Stroke()
	page.PopGraphicsState()
	return page.Err
}

// Serialize implements the [zpl.Backend] interface.
// The document is finished by the first call; later calls return the same
// data.
func (w *Writer) Serialize() ([]byte, error) {
	if w.page == nil {
		return nil, errNoDocument
	}
	if !w.done {
		err := w.page.Close()
		if err != nil {
			return nil, err
		}
		w.done = true
	}
	return w.buf.Bytes(), nil
}

func (w *Writer) check() error {
	if w.page == nil {
		return errNoDocument
	}
	if w.done {
		return errClosed
	}
	return nil
}

// fieldMatrix maps the coordinate system of an unrotated field of the
// given size (in mm, origin at the bottom left) to PDF page coordinates.
// The field is placed at the cursor and rotated according to the ZPL
// orientation code.
func (w *Writer) fieldMatrix(o byte, width, height float64) matrix.Matrix {
	flip := matrix.Matrix{1, 0, 0, -1, 0, height}
	k := zpl.PointsPerMM
	page := matrix.Matrix{k, 0, 0, -k, 0, w.height}
	return flip.
		Mul(orientation(o, width, height)).
		Mul(matrix.Translate(w.x, w.y)).
		Mul(page)
}

// orientation maps the unrotated field, with the y-axis pointing down, to
// the rotated field.  Both have their top left corner at the origin.
func orientation(o byte, width, height float64) matrix.Matrix {
	switch o {
	case 'R': // rotated 90 degrees clockwise
		return matrix.Matrix{0, 1, -1, 0, height, 0}
	case 'I': // inverted
		return matrix.Matrix{-1, 0, 0, -1, width, height}
	case 'B': // read from bottom up
		return matrix.Matrix{0, -1, 1, 0, 0, width}
	default:
		return matrix.Identity
	}
}

// winAnsi replaces all characters which are not in the WinAnsi encoding of
// the standard fonts by question marks.
func winAnsi(s string) string {
	var res []rune
	for i, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); ok {
			if res != nil {
				res = append(res, r)
			}
			continue
		}
		if res == nil {
			res = []rune(s[:i])
		}
		res = append(res, '?')
	}
	if res == nil {
		return s
	}
	return string(res)
}

const (
	// interpretationSize is the font size, in mm, of the human readable
	// line of barcodes.
	interpretationSize = 3.0

	// helveticaBoldAscent is the height of the font above the baseline, as
	// a fraction of the font size.
	helveticaBoldAscent = 0.718
)

// helveticaBold is one of the standard 14 PDF fonts, which need not be
// embedded.
var helveticaBold = standard.HelveticaBold.New()

var (
	errNoDocument = errors.New("pdf: CreateDocument has not been called")
	errClosed     = errors.New("pdf: document already serialized")
)
