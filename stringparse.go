/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package simdjson

import (
	"fmt"
	"unicode/utf8"
)

// stringSpan scans the string token at buf[off] (the opening quote) and
// returns its raw body (the bytes strictly between the quotes), the offset
// to resume structural-index bookkeeping at (one past the closing quote),
// and whether the body contains any escape sequences. Shared by the tape
// builder (stage2_tape.go) and the OnDemand reader (ondemand.go), which
// otherwise duplicated this exact scan.
func stringSpan(buf []byte, off int) (raw []byte, end int, hasEscape bool, err error) {
	n := len(buf)
	i := off + 1
	start := i
	for i < n {
		c := buf[i]
		if c == '"' {
			break
		}
		if c == '\\' {
			hasEscape = true
			i += 2
			continue
		}
		if c < 0x20 {
			return nil, i, false, fmt.Errorf("unescaped control character in string: %w", ErrUnescapedChars)
		}
		i++
	}
	if i >= n {
		return nil, i, false, fmt.Errorf("string is not terminated before end of input: %w", ErrUnclosedString)
	}
	return buf[start:i], i + 1, hasEscape, nil
}

// unescapeString is C10. raw holds the bytes strictly between the opening
// and closing quote of a JSON string token (spec.md 4.10); it is appended,
// with escapes resolved, to dst.
func unescapeString(raw []byte, dst []byte) ([]byte, error) {
	i := 0
	n := len(raw)
	for i < n {
		c := raw[i]
		if c != '\\' {
			dst = append(dst, c)
			i++
			continue
		}
		i++
		if i >= n {
			return dst, fmt.Errorf("string ends with bare backslash: %w", ErrStringError)
		}
		switch raw[i] {
		case '"':
			dst = append(dst, '"')
			i++
		case '\\':
			dst = append(dst, '\\')
			i++
		case '/':
			dst = append(dst, '/')
			i++
		case 'b':
			dst = append(dst, '\b')
			i++
		case 'f':
			dst = append(dst, '\f')
			i++
		case 'n':
			dst = append(dst, '\n')
			i++
		case 'r':
			dst = append(dst, '\r')
			i++
		case 't':
			dst = append(dst, '\t')
			i++
		case 'u':
			i++
			r, consumed, err := decodeUnicodeEscape(raw, i)
			if err != nil {
				return dst, err
			}
			i += consumed
			var buf [utf8.UTFMax]byte
			w := utf8.EncodeRune(buf[:], r)
			dst = append(dst, buf[:w]...)
		default:
			return dst, fmt.Errorf("invalid escape character %q: %w", raw[i], ErrStringError)
		}
	}
	return dst, nil
}

// decodeUnicodeEscape decodes one \uXXXX escape (and, for a high surrogate,
// the paired \uXXXX low surrogate immediately after it) starting at raw[i].
// Returns the decoded rune and the number of raw bytes consumed after the
// initial "u" (4, or 10 for a surrogate pair).
func decodeUnicodeEscape(raw []byte, i int) (rune, int, error) {
	v, err := hex4(raw, i)
	if err != nil {
		return 0, 0, err
	}
	if v < 0xD800 || v > 0xDFFF {
		return rune(v), 4, nil
	}
	if v > 0xDBFF {
		return 0, 0, fmt.Errorf("unpaired low surrogate \\u%04x: %w", v, ErrStringError)
	}
	// High surrogate: must be followed by \uDC00-\uDFFF.
	if i+4 >= len(raw) || raw[i+4] != '\\' || raw[i+5] != 'u' {
		return 0, 0, fmt.Errorf("unpaired high surrogate \\u%04x: %w", v, ErrStringError)
	}
	low, err := hex4(raw, i+6)
	if err != nil {
		return 0, 0, err
	}
	if low < 0xDC00 || low > 0xDFFF {
		return 0, 0, fmt.Errorf("high surrogate \\u%04x not followed by low surrogate: %w", v, ErrStringError)
	}
	r := 0x10000 + (rune(v)-0xD800)*0x400 + (rune(low) - 0xDC00)
	return r, 10, nil
}

func hex4(raw []byte, i int) (uint32, error) {
	if i+4 > len(raw) {
		return 0, fmt.Errorf("truncated \\u escape: %w", ErrStringError)
	}
	var v uint32
	for _, c := range raw[i : i+4] {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint32(c - '0')
		case c >= 'a' && c <= 'f':
			v |= uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= uint32(c-'A') + 10
		default:
			return 0, fmt.Errorf("invalid hex digit %q in \\u escape: %w", c, ErrStringError)
		}
	}
	return v, nil
}
