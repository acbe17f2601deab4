// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package shellwords tokenizes interactive command lines using
// shell-like quoting rules. The session controller splits every line
// the operator types through this package before command lookup.
//
// Rules:
//   - Tokens are separated by unquoted whitespace.
//   - Single quotes preserve everything literally, including
//     backslashes.
//   - Double quotes preserve whitespace; backslash escapes the next
//     character inside them.
//   - Outside quotes, backslash escapes the next character.
//
// An unterminated quote or a trailing backslash is an error — the
// operator is told to fix the line rather than having the engine guess.
package shellwords

import (
	"fmt"
	"strings"
	"unicode"
)

// Split tokenizes a command line. The result is empty (not nil-error)
// for blank or whitespace-only input.
func Split(line string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		// inToken distinguishes an empty pending token (from "" or '')
		// from no token at all.
		inToken       bool
		singleQuoted  bool
		doubleQuoted  bool
		escaped       bool
	)

	flush := func() {
		if inToken {
			tokens = append(tokens, current.String())
			current.Reset()
			inToken = false
		}
	}

	for _, character := range line {
		switch {
		case escaped:
			current.WriteRune(character)
			inToken = true
			escaped = false

		case singleQuoted:
			if character == '\'' {
				singleQuoted = false
			} else {
				current.WriteRune(character)
			}

		case doubleQuoted:
			switch character {
			case '"':
				doubleQuoted = false
			case '\\':
				escaped = true
			default:
				current.WriteRune(character)
			}

		case character == '\'':
			singleQuoted = true
			inToken = true

		case character == '"':
			doubleQuoted = true
			inToken = true

		case character == '\\':
			escaped = true

		case unicode.IsSpace(character):
			flush()

		default:
			current.WriteRune(character)
			inToken = true
		}
	}

	if escaped {
		return nil, fmt.Errorf("shellwords: trailing backslash")
	}
	if singleQuoted || doubleQuoted {
		return nil, fmt.Errorf("shellwords: unterminated quote")
	}

	flush()
	return tokens, nil
}
