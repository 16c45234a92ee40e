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
	"errors"
	"fmt"
	"log/slog"

	"seehuhn.de/go/geom/vec"
)

// Phase is the state of the field state machine of an [Interpreter].
type Phase int

// These are the possible phases of an [Interpreter].
const (
	// Idle means that no field is open.
	Idle Phase = iota

	// FieldOpen means that a field origin has been set by ^FO.
	FieldOpen

	// BarcodePending means that a barcode has been started by ^BC.  Field
	// data is captured until the next ^FS, which draws the barcode.
	BarcodePending
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case FieldOpen:
		return "field open"
	case BarcodePending:
		return "barcode pending"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Interpreter executes ZPL commands and sends the resulting drawing
// operations to a [Backend].
//
// An Interpreter must not be used concurrently from more than one
// goroutine.
type Interpreter struct {
	// Logger, if set, receives diagnostic messages, for example about
	// unsupported commands.
	Logger *slog.Logger

	b    Backend
	dpmm int

	home   vec.Vec2 // label home, in mm
	cursor vec.Vec2 // current field origin, in mm

	phase Phase

	fontSize        float64 // in points
	defaultFontSize float64 // in points
	fieldFont       bool    // fontSize was set by ^A for the current field

	pending *Barcode // non-nil iff phase == BarcodePending
	by      barcodeDefaults
}

// barcodeDefaults holds the values set by ^BY.
type barcodeDefaults struct {
	moduleWidth int // dots
	ratio       float64
	height      int // dots
}

// State is a snapshot of the state of an [Interpreter].
type State struct {
	Phase          Phase
	Home           vec.Vec2
	Cursor         vec.Vec2
	FontSize       float64
	BarcodeContent string
}

// DefaultFontSize is the font size in points which is used for fields
// without an ^A command, until it is changed by ^CF.
const DefaultFontSize = 12

// NewInterpreter creates a new document of the given size (in millimeters)
// on b and returns an Interpreter which draws to this document.
// The printer resolution dpmm is given in dots per millimeter.
func NewInterpreter(b Backend, width, height float64, dpmm int) (*Interpreter, error) {
	if dpmm <= 0 {
		return nil, fmt.Errorf("zpl: invalid resolution %d dots/mm", dpmm)
	}
	if !(width > 0 && height > 0) {
		return nil, fmt.Errorf("zpl: invalid label size %gx%gmm", width, height)
	}

	if d, ok := b.(DeviceBackend); ok {
		d.SetResolution(dpmm)
	}
	err := b.CreateDocument(width, height)
	if err != nil {
		return nil, err
	}

	intp := &Interpreter{
		b:               b,
		dpmm:            dpmm,
		defaultFontSize: DefaultFontSize,
		by: barcodeDefaults{
			moduleWidth: 2,
			ratio:       3.0,
			height:      10,
		},
	}
	intp.setFontSize(intp.defaultFontSize)
	return intp, nil
}

// Run executes a complete label.  The first command must be ^XA and the
// last command must be ^XZ.  The envelope is checked before any command is
// executed.
func (intp *Interpreter) Run(cmds []Command) error {
	err := checkEnvelope(cmds)
	if err != nil {
		return err
	}

	for _, c := range cmds[1 : len(cmds)-1] {
		err := intp.Dispatch(c.Name, c.Args)
		if err != nil {
			return err
		}
	}
	return nil
}

func checkEnvelope(cmds []Command) error {
	if len(cmds) == 0 {
		return &StructuralError{Which: "empty"}
	}
	if first := cmds[0].Name; first != StartFormat {
		return &StructuralError{Which: "start", Name: first}
	}
	if last := cmds[len(cmds)-1].Name; len(cmds) < 2 || last != EndFormat {
		return &StructuralError{Which: "end", Name: last}
	}
	for _, c := range cmds[1 : len(cmds)-1] {
		if c.Name == StartFormat || c.Name == EndFormat {
			return &StructuralError{Which: "nested", Name: c.Name}
		}
	}
	return nil
}

// Dispatch executes a single command.  Commands which are not supported
// are ignored.
func (intp *Interpreter) Dispatch(name Name, args []string) error {
	h, ok := commands[name]
	if !ok {
		intp.debug("ignoring unsupported command", "command", string(name))
		return nil
	}

	err := h(intp, Command{Name: name, Args: args})
	if err == nil {
		return nil
	}

	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return err
	}
	return &CommandError{Command: name, Err: err}
}

// Finalize returns the finished document.
func (intp *Interpreter) Finalize() ([]byte, error) {
	return intp.b.Serialize()
}

// State returns a snapshot of the current interpreter state.
func (intp *Interpreter) State() State {
	s := State{
		Phase:    intp.phase,
		Home:     intp.home,
		Cursor:   intp.cursor,
		FontSize: intp.fontSize,
	}
	if intp.pending != nil {
		s.BarcodeContent = intp.pending.Content
	}
	return s
}

func (intp *Interpreter) mm(dots int) float64 {
	return DotsToMM(float64(dots), intp.dpmm)
}

func (intp *Interpreter) moveTo(p vec.Vec2) {
	intp.cursor = p
	intp.b.MoveCursor(p.X, p.Y)
}

func (intp *Interpreter) setFontSize(pt float64) {
	intp.fontSize = pt
	intp.b.SetFontSize(pt)
}

// endField implements the transition caused by ^FS: a pending barcode is
// drawn, then font and cursor revert to the label defaults.
func (intp *Interpreter) endField() error {
	if intp.phase == BarcodePending {
		bc := intp.pending
		intp.pending = nil
		err := intp.b.DrawBarcode(bc)
		if err != nil {
			return err
		}
	}

	intp.setFontSize(intp.defaultFontSize)
	intp.fieldFont = false
	intp.moveTo(intp.home)
	intp.phase = Idle
	return nil
}

func (intp *Interpreter) debug(msg string, args ...any) {
	if intp.Logger != nil {
		intp.Logger.Debug(msg, args...)
	}
}
