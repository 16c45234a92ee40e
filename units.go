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

// PointsPerMM is the number of PDF points in one millimeter (72/25.4).
const PointsPerMM = 2.8346456693

// DotsToMM converts a length in printer dots to millimeters.
func DotsToMM(dots float64, dpmm int) float64 {
	return dots / float64(dpmm)
}

// MMToPoints converts a length in millimeters to PDF points.
func MMToPoints(mm float64) float64 {
	return mm * PointsPerMM
}
