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
	"io"
	"strings"
)

// Parse resets the lexer and parses all commands of the input.
func Parse(l *Lexer) ([]Command, error) {
	err := l.Reset()
	if err != nil {
		return nil, err
	}

	var cmds []Command
	for {
		tok, err := l.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		cmds = append(cmds, ParseCommand(tok))
	}
	return cmds, nil
}

// ParseCommand splits a single token, as returned by [Lexer.Next], into the
// command code and its arguments.
//
// The font command ^A is special: it is the only command with a
// one-character code.  The character following the "A" is either "@",
// which selects a font by name (command [FontName]), or the font code, which
// then becomes part of the first argument of [Font].
func ParseCommand(tok string) Command {
	if len(tok) > 0 && isPrefix(tok[0]) {
		tok = tok[1:]
	}

	n := min(2, len(tok))
	code := strings.ToUpper(tok[:n])
	rest := tok[n:]

	if code != string(FontName) && strings.HasPrefix(code, "A") {
		rest = tok[1:n] + rest
		code = string(Font)
	}

	cmd := Command{Name: Name(code)}
	if rest != "" {
		cmd.Args = strings.Split(rest, ",")
	}
	return cmd
}
