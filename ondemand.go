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

// OnDemandDocument is C8: a forward-only, lazy view of a JSON document that
// walks Stage 1's structural-index array directly instead of building a
// tape (spec.md 4.8). It decodes a value only when a caller asks for it,
// reusing the same number (C9) and string (C10) parsers the tape builder
// uses. The teacher (minio/simdjson-go) has no on-demand mode -- this is
// grounded on original_source/include/simdjson/generic/ondemand/document.h
// and value.h, expressed with the teacher's tape-API naming conventions
// (Iter/Object/Array) rather than the C++ iterator/reference types.
type OnDemandDocument struct {
	buf     []byte
	idx     []uint32
	checked bool
	started bool
}

// ParseOnDemand runs Stage 1 over buf and returns a document ready for
// on-demand access. Unlike Parse/ParseND, no tape is ever built.
func ParseOnDemand(buf []byte, opts ...ParserOption) (*OnDemandDocument, error) {
	if len(buf) == 0 {
		return nil, ErrEmpty
	}
	tmp := &internalParsedJson{}
	if err := tmp.applyOptions(opts); err != nil {
		return nil, err
	}
	backend := tmp.backend
	if backend == nil {
		backend = selectBackend()
	}
	indexes, ok := findStructuralIndices(buf, backend.Step())
	if !ok {
		return nil, ErrUTF8Error
	}
	return &OnDemandDocument{buf: buf, idx: indexes, checked: tmp.checked}, nil
}

// Root returns the document's single top-level value. With WithChecked,
// calling Root more than once is an error -- on-demand iteration has no
// cursor to rewind (spec.md 4.8 contract 1).
func (d *OnDemandDocument) Root() (OnDemandValue, error) {
	if d.checked && d.started {
		return OnDemandValue{}, fmt.Errorf("document root already consumed: %w", ErrOutOfOrderIteration)
	}
	d.started = true
	return OnDemandValue{buf: d.buf, idx: d.idx, pos: 0, checked: d.checked}, nil
}

// OnDemandValue is an unmaterialized JSON value: a position in the
// structural-index stream plus enough state to decode it exactly once.
type OnDemandValue struct {
	buf     []byte
	idx     []uint32
	pos     int
	checked bool
	used    bool
}

// odCur returns the byte offset and value at idx[pos], or ok=false past
// the end of the structural-index stream. Shared free function (rather
// than a tapeBuilder method) because OnDemandValue/ObjectIterator/
// ArrayIterator all need it without owning a tapeBuilder.
func odCur(idx []uint32, buf []byte, pos int) (off uint32, b byte, ok bool) {
	if pos >= len(idx) {
		return 0, 0, false
	}
	off = idx[pos]
	if int(off) >= len(buf) {
		return off, 0, false
	}
	return off, buf[off], true
}

func (v *OnDemandValue) markUsed() error {
	if v.checked && v.used {
		return fmt.Errorf("value already consumed: %w", ErrOutOfOrderIteration)
	}
	v.used = true
	return nil
}

// Type reports the value's type without consuming it. For numbers this
// decodes the token (a cheap, side-effect-free scan) to distinguish
// int/uint/float, since the structural index alone can't tell them apart.
func (v *OnDemandValue) Type() (Type, error) {
	off, b, ok := odCur(v.idx, v.buf, v.pos)
	if !ok {
		return TypeNone, fmt.Errorf("no value at this position: %w", ErrTapeError)
	}
	switch {
	case b == '{':
		return TypeObject, nil
	case b == '[':
		return TypeArray, nil
	case b == '"':
		return TypeString, nil
	case b == 't' || b == 'f':
		return TypeBool, nil
	case b == 'n':
		return TypeNull, nil
	case b == '-' || isDigit(b):
		num, _, err := parseNumberValue(v.buf, int(off))
		if err != nil {
			return TypeNone, err
		}
		switch num.Kind {
		case NumberFloat:
			return TypeFloat, nil
		case NumberUint:
			return TypeUint, nil
		default:
			return TypeInt, nil
		}
	default:
		return TypeNone, fmt.Errorf("unexpected character %q: %w", b, ErrTapeError)
	}
}

// IsNull reports whether the value is the null literal. It does not count
// as consuming the value, mirroring simdjson's is_null() pre-check idiom.
func (v *OnDemandValue) IsNull() (bool, error) {
	_, b, ok := odCur(v.idx, v.buf, v.pos)
	if !ok {
		return false, fmt.Errorf("no value at this position: %w", ErrTapeError)
	}
	return b == 'n', nil
}

// Bool returns the value's boolean literal.
func (v *OnDemandValue) Bool() (bool, error) {
	if err := v.markUsed(); err != nil {
		return false, err
	}
	off, b, ok := odCur(v.idx, v.buf, v.pos)
	if !ok {
		return false, fmt.Errorf("no value at this position: %w", ErrTapeError)
	}
	switch b {
	case 't':
		if !literalMatches(v.buf, int(off), "true") {
			return false, fmt.Errorf("invalid atom starting with \"t\": %w", ErrTAtomError)
		}
		return true, nil
	case 'f':
		if !literalMatches(v.buf, int(off), "false") {
			return false, fmt.Errorf("invalid atom starting with \"f\": %w", ErrFAtomError)
		}
		return false, nil
	default:
		return false, fmt.Errorf("value is not bool: %w", ErrIncorrectType)
	}
}

// Number returns the value's decoded numeric form.
func (v *OnDemandValue) Number() (Number, error) {
	if err := v.markUsed(); err != nil {
		return Number{}, err
	}
	off, b, ok := odCur(v.idx, v.buf, v.pos)
	if !ok || (b != '-' && !isDigit(b)) {
		return Number{}, fmt.Errorf("value is not a number: %w", ErrIncorrectType)
	}
	num, _, err := parseNumberValue(v.buf, int(off))
	return num, err
}

// Int64 returns the value as an int64, converting from float/uint as
// Iter.Int does for the tape path.
func (v *OnDemandValue) Int64() (int64, error) {
	num, err := v.Number()
	if err != nil {
		return 0, err
	}
	switch num.Kind {
	case NumberInt:
		return num.Int, nil
	case NumberUint:
		if num.Uint > 1<<63-1 {
			return 0, fmt.Errorf("unsigned integer value overflows int64: %w", ErrIncorrectType)
		}
		return int64(num.Uint), nil
	case NumberFloat:
		if num.Float > 1<<63-1 || num.Float < -1<<63 {
			return 0, fmt.Errorf("float value overflows int64: %w", ErrIncorrectType)
		}
		return int64(num.Float), nil
	default:
		return 0, fmt.Errorf("value is a big integer: %w", ErrBigIntError)
	}
}

// Float64 returns the value as a float64.
func (v *OnDemandValue) Float64() (float64, error) {
	num, err := v.Number()
	if err != nil {
		return 0, err
	}
	switch num.Kind {
	case NumberFloat:
		return num.Float, nil
	case NumberInt:
		return float64(num.Int), nil
	case NumberUint:
		return float64(num.Uint), nil
	default:
		return 0, fmt.Errorf("value is a big integer: %w", ErrBigIntError)
	}
}

// String returns the value's string content, unescaped lazily.
func (v *OnDemandValue) String() (RawString, error) {
	if err := v.markUsed(); err != nil {
		return RawString{}, err
	}
	off, b, ok := odCur(v.idx, v.buf, v.pos)
	if !ok || b != '"' {
		return RawString{}, fmt.Errorf("value is not string: %w", ErrIncorrectType)
	}
	raw, _, hasEscape, err := stringSpan(v.buf, int(off))
	if err != nil {
		return RawString{}, err
	}
	return RawString{raw: raw, hasEscape: hasEscape}, nil
}

// Object returns the value as an object iterator.
func (v *OnDemandValue) Object() (*ObjectIterator, error) {
	if err := v.markUsed(); err != nil {
		return nil, err
	}
	_, b, ok := odCur(v.idx, v.buf, v.pos)
	if !ok || b != '{' {
		return nil, fmt.Errorf("value is not an object: %w", ErrIncorrectType)
	}
	return &ObjectIterator{buf: v.buf, idx: v.idx, pos: v.pos + 1, start: v.pos + 1, checked: v.checked}, nil
}

// Array returns the value as an array iterator.
func (v *OnDemandValue) Array() (*ArrayIterator, error) {
	if err := v.markUsed(); err != nil {
		return nil, err
	}
	_, b, ok := odCur(v.idx, v.buf, v.pos)
	if !ok || b != '[' {
		return nil, fmt.Errorf("value is not an array: %w", ErrIncorrectType)
	}
	return &ArrayIterator{buf: v.buf, idx: v.idx, pos: v.pos + 1, start: v.pos + 1, checked: v.checked}, nil
}

// RawString is a JSON string token whose escapes have not yet been
// resolved (simdjson's on-demand API keeps object keys and string values
// raw until a caller actually needs the decoded text).
type RawString struct {
	raw       []byte
	hasEscape bool
}

// String decodes the string, resolving escapes if present.
func (r RawString) String() (string, error) {
	b, err := r.Bytes()
	return string(b), err
}

// Bytes decodes the string to bytes, resolving escapes if present.
func (r RawString) Bytes() ([]byte, error) {
	if !r.hasEscape {
		return r.raw, nil
	}
	return unescapeString(r.raw, make([]byte, 0, len(r.raw)))
}

// Raw returns the token's bytes exactly as they appear in the input,
// escapes included.
func (r RawString) Raw() []byte {
	return r.raw
}

// skipValue advances pos past one complete value (of any type) without
// materializing it, recursing into nested objects/arrays. Used by
// ObjectIterator/ArrayIterator to jump over a field or element that the
// caller never read, so forward-only iteration can still reach the next
// sibling (spec.md 4.8; grounded on simdjson's on-demand skip_child()).
func skipValue(buf []byte, idx []uint32, pos int) (int, error) {
	off, b, ok := odCur(idx, buf, pos)
	if !ok {
		return pos, fmt.Errorf("unexpected end of input, expecting value: %w", ErrTapeError)
	}
	switch {
	case b == '{':
		return skipObject(buf, idx, pos)
	case b == '[':
		return skipArray(buf, idx, pos)
	case b == '"':
		if _, _, _, err := stringSpan(buf, int(off)); err != nil {
			return pos, err
		}
		return pos + 2, nil
	case b == 't':
		if !literalMatches(buf, int(off), "true") {
			return pos, fmt.Errorf("invalid atom starting with \"t\": %w", ErrTAtomError)
		}
		return pos + 1, nil
	case b == 'f':
		if !literalMatches(buf, int(off), "false") {
			return pos, fmt.Errorf("invalid atom starting with \"f\": %w", ErrFAtomError)
		}
		return pos + 1, nil
	case b == 'n':
		if !literalMatches(buf, int(off), "null") {
			return pos, fmt.Errorf("invalid atom starting with \"n\": %w", ErrNAtomError)
		}
		return pos + 1, nil
	case b == '-' || isDigit(b):
		if _, _, err := parseNumberValue(buf, int(off)); err != nil {
			return pos, err
		}
		return pos + 1, nil
	default:
		return pos, fmt.Errorf("unexpected character %q, expecting value: %w", b, ErrTapeError)
	}
}

func skipObject(buf []byte, idx []uint32, pos int) (int, error) {
	pos++ // consume '{'
	_, b, ok := odCur(idx, buf, pos)
	if !ok {
		return pos, fmt.Errorf("unexpected end of input inside object: %w", ErrTapeError)
	}
	if b == '}' {
		return pos + 1, nil
	}
	for {
		off, b, ok := odCur(idx, buf, pos)
		if !ok || b != '"' {
			return pos, fmt.Errorf("expected string key in object: %w", ErrTapeError)
		}
		if _, _, _, err := stringSpan(buf, int(off)); err != nil {
			return pos, err
		}
		pos += 2

		_, b, ok = odCur(idx, buf, pos)
		if !ok || b != ':' {
			return pos, fmt.Errorf("expected ':' after object key: %w", ErrTapeError)
		}
		pos++

		var err error
		pos, err = skipValue(buf, idx, pos)
		if err != nil {
			return pos, err
		}

		_, b, ok = odCur(idx, buf, pos)
		if !ok {
			return pos, fmt.Errorf("unexpected end of input inside object: %w", ErrTapeError)
		}
		if b == ',' {
			pos++
			continue
		}
		if b == '}' {
			return pos + 1, nil
		}
		return pos, fmt.Errorf("expected ',' or '}' in object: %w", ErrTapeError)
	}
}

func skipArray(buf []byte, idx []uint32, pos int) (int, error) {
	pos++ // consume '['
	_, b, ok := odCur(idx, buf, pos)
	if !ok {
		return pos, fmt.Errorf("unexpected end of input inside array: %w", ErrTapeError)
	}
	if b == ']' {
		return pos + 1, nil
	}
	for {
		var err error
		pos, err = skipValue(buf, idx, pos)
		if err != nil {
			return pos, err
		}

		_, b, ok = odCur(idx, buf, pos)
		if !ok {
			return pos, fmt.Errorf("unexpected end of input inside array: %w", ErrTapeError)
		}
		if b == ',' {
			pos++
			continue
		}
		if b == ']' {
			return pos + 1, nil
		}
		return pos, fmt.Errorf("expected ',' or ']' in array: %w", ErrTapeError)
	}
}
