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

// Package raster implements a ZPL rendering backend which produces a PNG
// image at the resolution of the printer, one pixel per dot.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/zpl"
	"seehuhn.de/go/zpl/internal/bars"
)

// Image renders a label into a grayscale image.
// Image implements [zpl.Backend].
type Image struct {
	// Logger, if set, receives diagnostic messages about barcodes which
	// cannot be encoded.
	Logger *slog.Logger

	dpmm int
	img  *image.Gray

	x, y     float64 // cursor in mm
	fontSize float64 // in points

	ttf   *opentype.Font
	faces map[float64]font.Face
}

var _ zpl.DeviceBackend = (*Image)(nil)

// New returns a new raster backend.  The resolution is set by the
// interpreter, see [Image.SetResolution].
func New() *Image {
	return &Image{
		dpmm:     defaultResolution,
		fontSize: zpl.DefaultFontSize,
		faces:    make(map[float64]font.Face),
	}
}

// defaultResolution is used if SetResolution is not called before
// CreateDocument.
const defaultResolution = 8

// SetResolution implements the [zpl.DeviceBackend] interface.
func (r *Image) SetResolution(dpmm int) {
	r.dpmm = dpmm
}

// CreateDocument implements the [zpl.Backend] interface.
func (r *Image) CreateDocument(width, height float64) error {
	if r.img != nil {
		return errors.New("raster: document already created")
	}
	if r.dpmm <= 0 {
		return fmt.Errorf("raster: invalid resolution %d dots/mm", r.dpmm)
	}

	ttf, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return err
	}
	r.ttf = ttf

	r.img = image.NewGray(image.Rect(0, 0, r.px(width), r.px(height)))
	draw.Draw(r.img, r.img.Bounds(), image.White, image.Point{}, draw.Src)
	return nil
}

// MoveCursor implements the [zpl.Backend] interface.
func (r *Image) MoveCursor(x, y float64) {
	r.x = x
	r.y = y
}

// SetFontSize implements the [zpl.Backend] interface.
func (r *Image) SetFontSize(pt float64) {
	r.fontSize = pt
}

// DrawText implements the [zpl.Backend] interface.
func (r *Image) DrawText(s string) error {
	if r.img == nil {
		return errNoDocument
	}
	return r.drawText(s, r.px(r.x), r.px(r.y), r.fontSize)
}

func (r *Image) drawText(s string, x, y int, pt float64) error {
	face, err := r.face(pt)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + face.Metrics().Ascent},
	}
	d.DrawString(s)
	return nil
}

func (r *Image) face(pt float64) (font.Face, error) {
	if face, ok := r.faces[pt]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(r.ttf, &opentype.FaceOptions{
		Size:    pt,
		DPI:     float64(r.dpmm) * 25.4,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	r.faces[pt] = face
	return face, nil
}

// DrawRect implements the [zpl.Backend] interface.
func (r *Image) DrawRect(x, y, w, h, thickness float64, c zpl.Color) error {
	if r.img == nil {
		return errNoDocument
	}

	src := image.Black
	if c == zpl.White {
		src = image.White
	}

	outer := image.Rect(r.px(x), r.px(y), r.px(x+w), r.px(y+h))
	t := max(r.px(thickness), 1)
	inner := outer.Inset(t)
	if inner.Empty() {
		draw.Draw(r.img, outer, src, image.Point{}, draw.Src)
		return nil
	}

	for _, part := range []image.Rectangle{
		{outer.Min, image.Pt(outer.Max.X, inner.Min.Y)},
		{image.Pt(outer.Min.X, inner.Max.Y), outer.Max},
		{image.Pt(outer.Min.X, inner.Min.Y), image.Pt(inner.Min.X, inner.Max.Y)},
		{image.Pt(inner.Max.X, inner.Min.Y), image.Pt(outer.Max.X, inner.Max.Y)},
	} {
		draw.Draw(r.img, part, src, image.Point{}, draw.Src)
	}
	return nil
}

// DrawBarcode implements the [zpl.Backend] interface.
//
// The human readable interpretation line is only drawn for barcodes in
// normal orientation.  If the content cannot be represented in Code 128,
// an empty frame is drawn in place of the barcode.
func (r *Image) DrawBarcode(b *zpl.Barcode) error {
	if r.img == nil {
		return errNoDocument
	}

	// sizes in dots
	module := max(r.px(b.ModuleWidth), 1)
	height := r.px(b.Height)
	x0, y0 := r.px(r.x), r.px(r.y)

	bb, modules, err := bars.Code128(b.Content)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Warn("cannot encode barcode", "content", b.Content, "error", err)
		}
		width := r.px(bars.PlaceholderWidth)
		frame := image.Rect(0, 0, width, height)
		inner := frame.Inset(module)
		for _, part := range []image.Rectangle{
			{frame.Min, image.Pt(frame.Max.X, inner.Min.Y)},
			{image.Pt(frame.Min.X, inner.Max.Y), frame.Max},
			{image.Pt(frame.Min.X, inner.Min.Y), image.Pt(inner.Min.X, inner.Max.Y)},
			{image.Pt(inner.Max.X, inner.Min.Y), image.Pt(frame.Max.X, inner.Max.Y)},
		} {
			dst := rotate(part, b.Orientation, width, height).Add(image.Pt(x0, y0))
			draw.Draw(r.img, dst, image.Black, image.Point{}, draw.Src)
		}
		return nil
	}

	width := modules * module
	barTop := 0
	total := height
	textSize := 0
	if b.Interpretation {
		textSize = r.px(interpretationSize)
		total += textSize
		if b.InterpretationAbove {
			barTop = textSize
		}
	}

	for _, bar := range bb {
		u := bar.Start * module
		local := image.Rect(u, barTop, u+bar.Width*module, barTop+height)
		dst := rotate(local, b.Orientation, width, total).Add(image.Pt(x0, y0))
		draw.Draw(r.img, dst, image.Black, image.Point{}, draw.Src)
	}

	if b.Interpretation && b.Orientation == 'N' {
		pt := zpl.MMToPoints(interpretationSize)
		face, err := r.face(pt)
		if err != nil {
			return err
		}
		tw := font.MeasureString(face, b.Content).Round()
		ty := y0 + height
		if b.InterpretationAbove {
			ty = y0
		}
		return r.drawText(b.Content, x0+(width-tw)/2, ty, pt)
	}
	return nil
}

// interpretationSize is the height, in mm, of the human readable line of
// barcodes.
const interpretationSize = 3.0

// rotate maps a rectangle given relative to the unrotated barcode of the
// given size into the field, according to the ZPL orientation code.
func rotate(rect image.Rectangle, o byte, width, height int) image.Rectangle {
	switch o {
	case 'R': // rotated 90 degrees clockwise
		return image.Rect(height-rect.Max.Y, rect.Min.X, height-rect.Min.Y, rect.Max.X)
	case 'I': // inverted
		return image.Rect(width-rect.Max.X, height-rect.Max.Y, width-rect.Min.X, height-rect.Min.Y)
	case 'B': // read from bottom up
		return image.Rect(rect.Min.Y, width-rect.Max.X, rect.Max.Y, width-rect.Min.X)
	default:
		return rect
	}
}

// Serialize implements the [zpl.Backend] interface.  It returns the label
// as a PNG image.
func (r *Image) Serialize() ([]byte, error) {
	if r.img == nil {
		return nil, errNoDocument
	}
	var buf bytes.Buffer
	err := png.Encode(&buf, r.img)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Gray returns the rendered label.
func (r *Image) Gray() *image.Gray {
	return r.img
}

// px converts a length in mm to dots.
func (r *Image) px(mm float64) int {
	return int(math.Round(mm * float64(r.dpmm)))
}

// At returns the color of the dot at label position (x, y), given in mm.
func (r *Image) At(x, y float64) color.Gray {
	return r.img.GrayAt(int(x*float64(r.dpmm)), int(y*float64(r.dpmm)))
}

var errNoDocument = errors.New("raster: CreateDocument has not been called")
