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

// Lexer splits a ZPL input into command tokens.
//
// A token starts with one of the prefix characters '^' or '~' and extends
// up to the next prefix character or the end of input.  Whitespace inside a
// token is dropped, except in ^FD tokens where it is part of the field data.
type Lexer struct {
	s *Stream
}

// NewLexer returns a Lexer which reads tokens from s.
func NewLexer(s *Stream) *Lexer {
	return &Lexer{s: s}
}

// Reset restarts tokenization at the beginning of the input.
func (l *Lexer) Reset() error {
	return l.s.Reset()
}

// All resets the input and returns all tokens.
func (l *Lexer) All() ([]string, error) {
	err := l.Reset()
	if err != nil {
		return nil, err
	}

	var res []string
	for {
		tok, err := l.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		res = append(res, tok)
	}
	return res, nil
}

// Next returns the next token, including its prefix character.
// At the end of input, [io.EOF] is returned.
func (l *Lexer) Next() (string, error) {
	b, err := l.s.Peek()
	if err != nil {
		return "", err
	}
	if !isPrefix(b) {
		return "", &LexicalError{Offset: l.s.Position(), Byte: b}
	}
	l.s.Next()

	var tok strings.Builder
	tok.WriteByte(b)

	// The whitespace policy depends on the command code, so the code is
	// collected first.
	var code []byte
	keepSpace := false
	for {
		b, err := l.s.Peek()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", err
		}
		if isPrefix(b) {
			break
		}
		l.s.Next()

		if isSpace(b) && !keepSpace {
			continue
		}
		tok.WriteByte(b)

		if len(code) < 2 {
			code = append(code, upper(b))
			if len(code) == 2 && Name(code) == FieldData {
				keepSpace = true
			}
		}
	}
	return tok.String(), nil
}

func isPrefix(b byte) bool {
	return b == '^' || b == '~'
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}
