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
	"strings"
)

// recorder is a Backend which records all calls.
type recorder struct {
	calls    []string
	barcodes []*Barcode
	err      error // returned by the drawing methods, if set
}

func (r *recorder) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) CreateDocument(width, height float64) error {
	r.record("CreateDocument(%.3f, %.3f)", width, height)
	return nil
}

func (r *recorder) MoveCursor(x, y float64) {
	r.record("MoveCursor(%.3f, %.3f)", x, y)
}

func (r *recorder) SetFontSize(pt float64) {
	r.record("SetFontSize(%.3f)", pt)
}

func (r *recorder) DrawText(s string) error {
	r.record("DrawText(%q)", s)
	return r.err
}

func (r *recorder) DrawRect(x, y, w, h, thickness float64, c Color) error {
	r.record("DrawRect(%.3f, %.3f, %.3f, %.3f, %.3f, %s)", x, y, w, h, thickness, c)
	return r.err
}

func (r *recorder) DrawBarcode(b *Barcode) error {
	r.record("DrawBarcode(%q)", b.Content)
	r.barcodes = append(r.barcodes, b)
	return r.err
}

func (r *recorder) Serialize() ([]byte, error) {
	r.record("Serialize()")
	return []byte("%document"), nil
}

// count returns the number of recorded calls of the given method.
func (r *recorder) count(method string) int {
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, method+"(") {
			n++
		}
	}
	return n
}

// deviceRecorder is a recorder which also implements DeviceBackend.
type deviceRecorder struct {
	recorder
}

func (r *deviceRecorder) SetResolution(dpmm int) {
	r.record("SetResolution(%d)", dpmm)
}
