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

import "fmt"

// Minify strips insignificant whitespace from src, appending the result to
// dst[:0], and returns the number of bytes written. It reuses Stage 1's
// whitespace classification (classify.go's isWhitespace) and tracks the
// same backslash/quote in-string state transition find_escaped/scan track
// in strscan.go -- grounded on
// original_source/src/generic/stage1/json_minifier.h, out of the core
// parser per spec.md 6/1 but sharing its classification primitives.
func Minify(src, dst []byte) (int, error) {
	dst = dst[:0]
	n := len(src)
	inString := false
	escaped := false
	i := 0
	for i < n {
		c := src[i]
		if inString {
			dst = append(dst, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			case c < 0x20:
				return len(dst), fmt.Errorf("unescaped control character in string: %w", ErrUnescapedChars)
			}
			i++
			continue
		}
		if isWhitespace(c) {
			i++
			continue
		}
		if c == '"' {
			inString = true
		}
		dst = append(dst, c)
		i++
	}
	if inString {
		return len(dst), fmt.Errorf("string is not terminated before end of input: %w", ErrUnclosedString)
	}
	return len(dst), nil
}
