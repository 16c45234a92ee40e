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

// Package bars computes the bar pattern of Code 128 barcodes.
package bars

import (
	"fmt"

	"github.com/boombuler/barcode/code128"
)

// Bar is a dark bar, measured in modules from the start of the symbol.
type Bar struct {
	Start, Width int
}

// PlaceholderWidth is the width in mm of the frame which backends draw in
// place of a barcode whose content cannot be encoded.
const PlaceholderWidth = 35.0

// Code128 returns the bars of the Code 128 symbol for content, together
// with the total width of the symbol in modules.  The code sets are chosen
// automatically.
func Code128(content string) ([]Bar, int, error) {
	bc, err := code128.Encode(content)
	if err != nil {
		return nil, 0, fmt.Errorf("code 128: %w", err)
	}

	b := bc.Bounds()
	var res []Bar
	inBar := false
	for x := b.Min.X; x < b.Max.X; x++ {
		r, _, _, _ := bc.At(x, b.Min.Y).RGBA()
		dark := r < 0x8000
		switch {
		case dark && inBar:
			res[len(res)-1].Width++
		case dark:
			res = append(res, Bar{Start: x - b.Min.X, Width: 1})
		}
		inBar = dark
	}
	return res, b.Dx(), nil
}
