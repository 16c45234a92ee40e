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

// Zpl2pdf converts a ZPL label description into a PDF file or a PNG image.
//
// Usage:
//
//	zpl2pdf [flags] input.zpl
//
// If no output file is given, the output is written to standard output.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"seehuhn.de/go/zpl"
	"seehuhn.de/go/zpl/pdf"
	"seehuhn.de/go/zpl/raster"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err == flag.ErrHelp {
		os.Exit(2)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "zpl2pdf:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("zpl2pdf", flag.ContinueOnError)
	flags.SetOutput(stderr)
	width := flags.Float64("w", 101.6, "label width in mm")
	height := flags.Float64("h", 152.4, "label height in mm")
	dpmm := flags.Int("dpmm", 8, "printer resolution in dots per mm")
	format := flags.String("format", "", "output format, \"pdf\" or \"png\" (default from output file name, else pdf)")
	out := flags.String("o", "", "output file name")
	verbose := flags.Bool("v", false, "log diagnostic messages")
	list := flags.Bool("list", false, "list the supported commands and exit")
	err := flags.Parse(args)
	if err != nil {
		return err
	}

	if *list {
		for _, name := range zpl.SupportedCommands() {
			fmt.Fprintln(stdout, "^"+string(name))
		}
		return nil
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return flag.ErrHelp
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if *format == "" {
		*format = strings.TrimPrefix(strings.ToLower(filepath.Ext(*out)), ".")
		if *format != "png" {
			*format = "pdf"
		}
	}

	var b zpl.Backend
	switch *format {
	case "pdf":
		w := pdf.New()
		w.Logger = logger
		b = w
	case "png":
		r := raster.New()
		r.Logger = logger
		b = r
	default:
		return fmt.Errorf("unknown output format %q", *format)
	}

	opt := &zpl.Options{
		Width:  *width,
		Height: *height,
		DPMM:   *dpmm,
		Logger: logger,
	}
	data, err := zpl.ConvertFile(flags.Arg(0), b, opt)
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = stdout.Write(data)
		return err
	}
	logger.Debug("writing output", "file", *out, "bytes", len(data))
	return os.WriteFile(*out, data, 0o644)
}
