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
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/vec"
)

func newTestInterpreter(t *testing.T) (*Interpreter, *recorder) {
	t.Helper()
	rec := &recorder{}
	intp, err := NewInterpreter(rec, 101.6, 152.4, 8)
	if err != nil {
		t.Fatal(err)
	}
	rec.calls = nil
	return intp, rec
}

func dispatch(t *testing.T, intp *Interpreter, tokens ...string) {
	t.Helper()
	for _, tok := range tokens {
		c := ParseCommand(tok)
		err := intp.Dispatch(c.Name, c.Args)
		if err != nil {
			t.Fatalf("%s: %v", tok, err)
		}
	}
}

func isClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

func TestFieldOrigin(t *testing.T) {
	intp, rec := newTestInterpreter(t)
	dispatch(t, intp, "^FO50,60")

	s := intp.State()
	if s.Cursor != (vec.Vec2{X: 6.25, Y: 7.5}) {
		t.Errorf("cursor = %v", s.Cursor)
	}
	if s.Phase != FieldOpen {
		t.Errorf("phase = %s", s.Phase)
	}
	if d := cmp.Diff([]string{"MoveCursor(6.250, 7.500)"}, rec.calls); d != "" {
		t.Error(d)
	}
}

func TestFieldOriginRange(t *testing.T) {
	cases := []struct {
		tok   string
		field string
	}{
		{"^FO32001,0", "x"},
		{"^FO-1,0", "x"},
		{"^FO0,32001", "y"},
		{"^FO0,abc", "y"},
	}
	for _, c := range cases {
		intp, _ := newTestInterpreter(t)
		cmd := ParseCommand(c.tok)
		err := intp.Dispatch(cmd.Name, cmd.Args)

		var argErr *ArgumentError
		if !errors.As(err, &argErr) {
			t.Errorf("%s: expected ArgumentError, got %v", c.tok, err)
			continue
		}
		if argErr.Command != FieldOrigin || argErr.Field != c.field {
			t.Errorf("%s: error names ^%s %s", c.tok, argErr.Command, argErr.Field)
		}
	}
}

func TestFont(t *testing.T) {
	cases := []struct {
		tok  string
		size float64
	}{
		{"^A0,40", 14.173},
		{"^A0N,20,40", 14.173}, // width takes precedence
		{"^A0N,,40", 14.173},
		{"^A0", 3.543}, // 10 dots
	}
	for _, c := range cases {
		intp, _ := newTestInterpreter(t)
		dispatch(t, intp, c.tok)
		if got := intp.State().FontSize; !isClose(got, c.size) {
			t.Errorf("%s: font size %.3f, want %.3f", c.tok, got, c.size)
		}
	}
}

func TestFontRange(t *testing.T) {
	cases := []struct {
		tok   string
		field string
	}{
		{"^A0,9", "h"},
		{"^A0,32001", "h"},
		{"^A0,40,5", "w"},
		{"^A0,,0", "w"},
		{"^A0,-20", "h"},
		{"^CF0,,-1", "w"},
		{"^CF0,5", "h"},
	}
	for _, c := range cases {
		intp, _ := newTestInterpreter(t)
		cmd := ParseCommand(c.tok)
		err := intp.Dispatch(cmd.Name, cmd.Args)

		var argErr *ArgumentError
		if !errors.As(err, &argErr) || argErr.Field != c.field {
			t.Errorf("%s: expected ArgumentError for %s, got %v", c.tok, c.field, err)
		}
	}
}

func TestFontResetAtFieldEnd(t *testing.T) {
	intp, rec := newTestInterpreter(t)
	dispatch(t, intp, "^FO10,10", "^A0,40", "^FDx", "^FS")

	exp := []string{
		"MoveCursor(1.250, 1.250)",
		"SetFontSize(14.173)",
		`DrawText("x")`,
		"SetFontSize(12.000)",
		"MoveCursor(0.000, 0.000)",
	}
	if d := cmp.Diff(exp, rec.calls); d != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", d)
	}
	if s := intp.State(); s.Phase != Idle || s.FontSize != DefaultFontSize {
		t.Errorf("unexpected state after ^FS: %+v", s)
	}
}

func TestNamedFont(t *testing.T) {
	intp, rec := newTestInterpreter(t)
	dispatch(t, intp, "^A@N,50,50,E:ARIAL.TTF", "^A@", "^A@N,x,y")
	if len(rec.calls) != 0 {
		t.Errorf("unexpected calls %q", rec.calls)
	}
}

func TestFieldDataCommas(t *testing.T) {
	intp, rec := newTestInterpreter(t)
	err := intp.Dispatch(FieldData, []string{"1234", "ABC"})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{`DrawText("1234,ABC")`}, rec.calls); d != "" {
		t.Error(d)
	}
}

func TestBarcode(t *testing.T) {
	intp, rec := newTestInterpreter(t)

	dispatch(t, intp, "^FO60,120", "^BCN,60,,,,A")
	if s := intp.State(); s.Phase != BarcodePending {
		t.Fatalf("phase = %s", s.Phase)
	}
	dispatch(t, intp, "^FD1234ABC")
	if s := intp.State(); s.BarcodeContent != "1234ABC" {
		t.Errorf("captured %q", s.BarcodeContent)
	}
	if rec.count("DrawBarcode") != 0 {
		t.Error("barcode drawn before ^FS")
	}
	dispatch(t, intp, "^FS")

	if n := rec.count("DrawBarcode"); n != 1 {
		t.Errorf("%d calls to DrawBarcode", n)
	}
	if n := rec.count("DrawText"); n != 0 {
		t.Errorf("%d calls to DrawText", n)
	}

	bc := rec.barcodes[0]
	exp := &Barcode{
		Content:        "1234ABC",
		Args:           []string{"N", "60", "", "", "", "A"},
		Orientation:    'N',
		Height:         7.5,
		ModuleWidth:    0.25,
		Ratio:          3,
		Interpretation: true,
		Mode:           'A',
	}
	if d := cmp.Diff(exp, bc); d != "" {
		t.Errorf("unexpected barcode (-want +got):\n%s", d)
	}

	if s := intp.State(); s.Phase != Idle || s.BarcodeContent != "" {
		t.Errorf("barcode state not cleared: %+v", s)
	}

	// the next field is text again
	dispatch(t, intp, "^FO0,0", "^FDtext", "^FS")
	if n := rec.count("DrawText"); n != 1 {
		t.Errorf("%d calls to DrawText", n)
	}
}

func TestBarcodeDefaults(t *testing.T) {
	intp, rec := newTestInterpreter(t)
	dispatch(t, intp, "^BY3,2.5,50", "^FO0,0", "^BCN,,Y,N,N,N", "^FD123", "^FS")

	bc := rec.barcodes[0]
	if !isClose(bc.ModuleWidth, 0.375) || !isClose(bc.Height, 6.25) || bc.Ratio != 2.5 {
		t.Errorf("unexpected barcode %+v", bc)
	}
}

func TestBarcodeArgs(t *testing.T) {
	cases := []struct {
		tok   string
		field string
	}{
		{"^BCX", "o"},
		{"^BCN,0", "h"},
		{"^BCN,10,maybe", "f"},
		{"^BCN,10,Y,Q", "g"},
		{"^BCN,10,Y,N,1", "e"},
		{"^BCN,10,Y,N,N,Z", "m"},
		{"^BY11", "w"},
		{"^BY2,3.5", "r"},
		{"^BY2,3,0", "h"},
	}
	for _, c := range cases {
		intp, _ := newTestInterpreter(t)
		cmd := ParseCommand(c.tok)
		err := intp.Dispatch(cmd.Name, cmd.Args)

		var argErr *ArgumentError
		if !errors.As(err, &argErr) || argErr.Field != c.field {
			t.Errorf("%s: expected ArgumentError for %s, got %v", c.tok, c.field, err)
		}
	}
}

func TestGraphicBox(t *testing.T) {
	intp, rec := newTestInterpreter(t)
	dispatch(t, intp, "^FO25,25", "^GB380,200,2", "^FS", "^GB16,8,,W,8")

	exp := []string{
		"MoveCursor(3.125, 3.125)",
		"DrawRect(3.125, 3.125, 47.500, 25.000, 0.250, B)",
		"SetFontSize(12.000)",
		"MoveCursor(0.000, 0.000)",
		"DrawRect(0.000, 0.000, 2.000, 1.000, 0.125, W)",
	}
	if d := cmp.Diff(exp, rec.calls); d != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", d)
	}
}

func TestGraphicBoxRange(t *testing.T) {
	cases := []struct {
		tok   string
		field string
		bound string
	}{
		{"^GB1,10,2", "w", "in [2, 32000]"},
		{"^GB10,1,2", "h", "in [2, 32000]"},
		{"^GB32001,10", "w", "in [1, 32000]"},
		{"^GB10,10,0", "t", "in [1, 32000]"},
		{"^GB10,10,1,R", "c", "one of B, W"},
		{"^GB10,10,1,B,9", "r", "in [0, 8]"},
	}
	for _, c := range cases {
		intp, rec := newTestInterpreter(t)
		cmd := ParseCommand(c.tok)
		err := intp.Dispatch(cmd.Name, cmd.Args)

		var argErr *ArgumentError
		if !errors.As(err, &argErr) {
			t.Errorf("%s: expected ArgumentError, got %v", c.tok, err)
			continue
		}
		if argErr.Command != GraphicBox || argErr.Field != c.field || argErr.Bound != c.bound {
			t.Errorf("%s: unexpected error %v", c.tok, err)
		}
		if len(rec.calls) != 0 {
			t.Errorf("%s: box was drawn", c.tok)
		}
	}
}

func TestLabelHome(t *testing.T) {
	intp, rec := newTestInterpreter(t)
	dispatch(t, intp, "^LH10,20", "^FO0,0", "^FDx", "^FS")

	exp := []string{
		"MoveCursor(1.250, 2.500)",
		"MoveCursor(1.250, 2.500)",
		`DrawText("x")`,
		"SetFontSize(12.000)",
		"MoveCursor(1.250, 2.500)",
	}
	if d := cmp.Diff(exp, rec.calls); d != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", d)
	}
}

func TestChangeFont(t *testing.T) {
	intp, _ := newTestInterpreter(t)
	dispatch(t, intp, "^CF0,40", "^FO0,0", "^A0,20", "^FDx")
	if got := intp.State().FontSize; !isClose(got, 7.087) {
		t.Errorf("field font size %.3f", got)
	}
	dispatch(t, intp, "^FS")
	if got := intp.State().FontSize; !isClose(got, 14.173) {
		t.Errorf("default font size %.3f", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	intp, rec := newTestInterpreter(t)
	err := intp.Dispatch("ZZ", []string{"1", "2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("unexpected calls %q", rec.calls)
	}
}

func TestUnknownCommandLogged(t *testing.T) {
	intp, _ := newTestInterpreter(t)
	buf := &bytes.Buffer{}
	intp.Logger = slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cmd := ParseCommand("~JA")
	err := intp.Dispatch(cmd.Name, cmd.Args)
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "command=JA") {
		t.Errorf("command code not logged:\n%s", out)
	}
	if strings.Contains(out, "^JA") {
		t.Errorf("wrong prefix in log message:\n%s", out)
	}
}

func TestBackendError(t *testing.T) {
	intp, rec := newTestInterpreter(t)
	rec.err = errors.New("out of ink")

	err := intp.Dispatch(FieldData, []string{"x"})
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Command != FieldData {
		t.Errorf("expected CommandError for ^FD, got %v", err)
	}
	if !errors.Is(err, rec.err) {
		t.Errorf("error %v does not wrap the backend error", err)
	}
}

func TestEnvelope(t *testing.T) {
	cases := []struct {
		in    string
		which string
	}{
		{"", "empty"},
		{"^FO0,0^XZ", "start"},
		{"^XA^FO0,0", "end"},
		{"^XA", "end"},
		{"^XA^XA^XZ", "nested"},
		{"^XA^FDx^XZ^XZ", "nested"},
	}
	for _, c := range cases {
		rec := &recorder{}
		_, err := ConvertString(c.in, rec, nil)

		var structErr *StructuralError
		if !errors.As(err, &structErr) || structErr.Which != c.which {
			t.Errorf("%q: expected StructuralError %q, got %v", c.in, c.which, err)
		}
		if n := rec.count("DrawText"); n != 0 {
			t.Errorf("%q: interior commands were executed", c.in)
		}
	}
}

func TestEnvelopeUnknownCommands(t *testing.T) {
	_, err := ConvertString("^XA^ZZ1,2~JA^PW800^XZ", &recorder{}, nil)
	if err != nil {
		t.Error(err)
	}
}

func TestConvert(t *testing.T) {
	rec := &recorder{}
	out, err := ConvertString("^XA^FO50,60^FDHello^FS^XZ", rec, &Options{DPMM: 8})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Error("empty output")
	}

	exp := []string{
		"CreateDocument(101.600, 152.400)",
		"SetFontSize(12.000)",
		"MoveCursor(6.250, 7.500)",
		`DrawText("Hello")`,
		"SetFontSize(12.000)",
		"MoveCursor(0.000, 0.000)",
		"Serialize()",
	}
	if d := cmp.Diff(exp, rec.calls); d != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", d)
	}
}

func TestConvertTestLabel(t *testing.T) {
	rec := &recorder{}
	_, err := ConvertString(testLabel, rec, &Options{Width: 50, Height: 30, DPMM: 12})
	if err != nil {
		t.Fatal(err)
	}
	if rec.calls[0] != "CreateDocument(50.000, 30.000)" {
		t.Errorf("unexpected first call %s", rec.calls[0])
	}
	if n := rec.count("DrawBarcode"); n != 1 {
		t.Errorf("%d barcodes", n)
	}
	if n := rec.count("DrawRect"); n != 1 {
		t.Errorf("%d boxes", n)
	}
	if n := rec.count("DrawText"); n != 1 {
		t.Errorf("%d text fields", n)
	}
}

func TestNewInterpreterInvalid(t *testing.T) {
	_, err := NewInterpreter(&recorder{}, 100, 100, 0)
	if err == nil {
		t.Error("zero resolution accepted")
	}
	_, err = NewInterpreter(&recorder{}, -1, 100, 8)
	if err == nil {
		t.Error("negative width accepted")
	}
}

func TestDeviceResolution(t *testing.T) {
	rec := &deviceRecorder{}
	_, err := ConvertString("^XA^XZ", rec, &Options{Width: 50, Height: 30, DPMM: 12})
	if err != nil {
		t.Fatal(err)
	}

	exp := []string{
		"SetResolution(12)",
		"CreateDocument(50.000, 30.000)",
		"SetFontSize(12.000)",
		"Serialize()",
	}
	if d := cmp.Diff(exp, rec.calls); d != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", d)
	}
}

func TestSupportedCommands(t *testing.T) {
	names := SupportedCommands()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("not sorted: %q", names)
			break
		}
	}
	for _, name := range []Name{FieldOrigin, Font, FontName, FieldData, Code128,
		FieldSeparator, GraphicBox} {
		if _, ok := commands[name]; !ok {
			t.Errorf("^%s is missing", name)
		}
	}
}
