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

import "errors"

// Sentinel errors. Callers can test with errors.Is; component code wraps
// these with fmt.Errorf("...: %w", ErrX) to add position context.
var (
	ErrCapacity                 = errors.New("simdjson: capacity exceeded")
	ErrMemAlloc                 = errors.New("simdjson: memory allocation failed")
	ErrTapeError                = errors.New("simdjson: tape error")
	ErrDepthError               = errors.New("simdjson: maximum depth exceeded")
	ErrStringError              = errors.New("simdjson: invalid string")
	ErrTAtomError               = errors.New("simdjson: invalid atom, expecting 'true'")
	ErrFAtomError               = errors.New("simdjson: invalid atom, expecting 'false'")
	ErrNAtomError               = errors.New("simdjson: invalid atom, expecting 'null'")
	ErrNumberError              = errors.New("simdjson: invalid number")
	ErrUTF8Error                = errors.New("simdjson: invalid UTF-8")
	ErrUninitialized            = errors.New("simdjson: parser uninitialized")
	ErrEmpty                    = errors.New("simdjson: empty input")
	ErrUnescapedChars           = errors.New("simdjson: unescaped control character in string")
	ErrUnclosedString           = errors.New("simdjson: unclosed string")
	ErrUnsupportedArchitecture  = errors.New("simdjson: unsupported architecture")
	ErrIncorrectType            = errors.New("simdjson: incorrect type")
	ErrNumberOutOfRange         = errors.New("simdjson: number out of range")
	ErrIndexOutOfBounds         = errors.New("simdjson: index out of bounds")
	ErrNoSuchField              = errors.New("simdjson: no such field")
	ErrIOError                  = errors.New("simdjson: I/O error")
	ErrInvalidJSONPointer       = errors.New("simdjson: invalid JSON pointer")
	ErrInvalidURIFragment       = errors.New("simdjson: invalid URI fragment")
	ErrUnexpectedError          = errors.New("simdjson: unexpected error")
	ErrParserInUse              = errors.New("simdjson: parser already in use")
	ErrOutOfOrderIteration      = errors.New("simdjson: out of order iteration")
	ErrInsufficientPadding      = errors.New("simdjson: insufficient padding after input")
	ErrIncompleteArrayOrObject  = errors.New("simdjson: incomplete array or object")
	ErrScalarDocumentAsValue    = errors.New("simdjson: scalar document cannot be used as a container value")
	ErrOutOfBounds              = errors.New("simdjson: out of bounds")
	ErrTrailingContent          = errors.New("simdjson: trailing content after document")
	ErrBigIntError              = errors.New("simdjson: value is a big integer, too large for the requested type")
)
