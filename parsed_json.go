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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

//
// For enhanced performance, simdjson-go can point back into the original JSON buffer for strings,
// however this can lead to issues in streaming use cases scenarios, or scenarios in which
// the underlying JSON buffer is reused. So the default behaviour is to create copies of all
// strings (not just those transformed anyway for unicode escape characters) into the separate
// Strings buffer (at the expense of using more memory and less performance).
//
const alwaysCopyStrings = true

const JSONVALUEMASK = 0xffffffffffffff
const JSONTAGMASK = uint64(0xff) << 56
const JSONTAGOFFSET = 56
const STRINGBUFBIT = 0x80000000000000
const STRINGBUFMASK = 0x7fffffffffffff

const maxdepth = 128

// FloatFlags are flags recorded when converting floats.
type FloatFlags uint64

// FloatFlag is a flag recorded when parsing floats.
type FloatFlag uint64

const (
	// FloatOverflowedInteger is set when a number in integer notation was
	// stored as a float: the literal -0, whose sign an integer cannot keep.
	// Integers outside both int64 and uint64 are stored as TagBigInt instead.
	FloatOverflowedInteger FloatFlag = 1 << iota
)

// Contains returns whether f contains the specified flag.
func (f FloatFlags) Contains(flag FloatFlag) bool {
	return FloatFlag(f)&flag == flag
}

// Flags converts the flag to FloatFlags and optionally merges more flags.
func (f FloatFlag) Flags(more ...FloatFlag) FloatFlags {
	// We operate on a copy, so we can modify f.
	for _, v := range more {
		f |= v
	}
	return FloatFlags(f)
}

// ParsedJson holds the compact tape representation of a parsed document
// (spec.md 3): the original message (for strings borrowed in place), the
// tape itself, and the auxiliary string buffer.
type ParsedJson struct {
	Message []byte
	Tape    []uint64
	Strings []byte

	// allows to reuse the internal structures without exposing it.
	internal *internalParsedJson
}

type internalParsedJson struct {
	ParsedJson
	isvalid     bool
	initialized bool
	backend     Backend

	// option fields, set directly by ParserOption funcs (options.go).
	copyStrings    bool
	commaSeparated bool
	checked        bool
	maxDepth       int
}

// Iter returns a new Iter.
func (pj *ParsedJson) Iter() Iter {
	return Iter{tape: *pj}
}

// stringAt returns a string at a specific offset in the stringbuffer.
func (pj *ParsedJson) stringAt(offset, length uint64) (string, error) {
	b, err := pj.stringByteAt(offset, length)
	return string(b), err
}

// stringByteAt returns a string at a specific offset in the stringbuffer.
func (pj *ParsedJson) stringByteAt(offset, length uint64) ([]byte, error) {
	if offset&STRINGBUFBIT == 0 {
		if offset+length > uint64(len(pj.Message)) {
			return nil, fmt.Errorf("string message offset (%v) outside valid area (%v): %w", offset+length, len(pj.Message), ErrStringError)
		}
		return pj.Message[offset : offset+length], nil
	}

	offset = offset & STRINGBUFMASK
	if offset+length > uint64(len(pj.Strings)) {
		return nil, fmt.Errorf("string buffer offset (%v) outside valid area (%v): %w", offset+length, len(pj.Strings), ErrStringError)
	}
	return pj.Strings[offset : offset+length], nil
}

// Iter represents a section of JSON.
// To start iterating it, use Advance() or AdvanceIter() methods
// which will queue the first element.
// If an Iter is copied, the copy will be independent.
type Iter struct {
	// The tape where this iter start.
	tape ParsedJson

	// offset of the next entry to be decoded
	off int

	// addNext is the number of entries to skip for the next entry.
	addNext int

	// current value, exclude tag in top bits
	cur uint64

	// current tag
	t Tag
}

// loadTape will load the input from the supplied readers.
func loadTape(tape, strings io.Reader) (*ParsedJson, error) {
	b, err := io.ReadAll(tape)
	if err != nil {
		return nil, err
	}
	if len(b)&7 != 0 {
		return nil, errors.New("unexpected tape length, should be modulo 8 bytes")
	}
	dst := ParsedJson{
		Tape:    make([]uint64, len(b)/8),
		Strings: nil,
	}
	// Read tape
	for i := range dst.Tape {
		dst.Tape[i] = binary.LittleEndian.Uint64(b[i*8 : i*8+8])
	}
	// Read stringbuf
	b, err = io.ReadAll(strings)
	if err != nil {
		return nil, err
	}
	dst.Strings = b
	return &dst, nil
}

// Advance will read the type of the next element
// and queues up the value on the same level.
func (i *Iter) Advance() Type {
	i.off += i.addNext
	// Skip TagNop tombstones left by Object.DeleteElems.
	for i.off < len(i.tape.Tape) && Tag(i.tape.Tape[i.off]>>56) == TagNop {
		i.off += int(i.tape.Tape[i.off] & JSONVALUEMASK)
	}
	if i.off >= len(i.tape.Tape) {
		i.addNext = 0
		i.t = TagEnd
		return TypeNone
	}

	v := i.tape.Tape[i.off]
	i.cur = v & JSONVALUEMASK
	i.t = Tag(v >> 56)
	i.off++
	i.calcNext(false)
	if i.addNext < 0 {
		// We can't send error, so move to end.
		i.moveToEnd()
		return TypeNone
	}
	return TagToType[i.t]
}

// AdvanceInto will read the tag of the next element
// and move into and out of arrays , objects and root elements.
// This should only be used for strictly manual parsing.
func (i *Iter) AdvanceInto() Tag {
	i.off += i.addNext
	if i.off >= len(i.tape.Tape) {
		i.addNext = 0
		i.t = TagEnd
		return TagEnd
	}

	v := i.tape.Tape[i.off]
	i.cur = v & JSONVALUEMASK
	i.t = Tag(v >> 56)
	i.off++
	i.calcNext(true)
	if i.addNext < 0 {
		// We can't send error, so end tape.
		i.moveToEnd()
		return TagEnd
	}
	return i.t
}

func (i *Iter) moveToEnd() {
	i.off = len(i.tape.Tape)
	i.addNext = 0
	i.t = TagEnd
}

// calcNext will populate addNext to the correct value to skip.
// Specify whether to move into objects/array.
func (i *Iter) calcNext(into bool) {
	i.addNext = 0
	switch i.t {
	case TagInteger, TagUint, TagFloat, TagString, TagBigInt:
		i.addNext = 1
	case TagNop:
		i.addNext = int(i.cur) - 1
	case TagRoot, TagObjectStart, TagArrayStart:
		if !into {
			i.addNext = int(i.cur) - i.off
		}
	}
}

// Type returns the queued value type from the previous call to Advance.
func (i *Iter) Type() Type {
	if i.off+i.addNext > len(i.tape.Tape) {
		return TypeNone
	}
	return TagToType[i.t]
}

// AdvanceIter will read the type of the next element
// and return an iterator only containing the object.
// If dst and i are the same, both will contain the value inside.
func (i *Iter) AdvanceIter(dst *Iter) (Type, error) {
	i.off += i.addNext
	if i.off == len(i.tape.Tape) {
		i.addNext = 0
		i.t = TagEnd
		return TypeNone, nil
	}
	if i.off > len(i.tape.Tape) {
		return TypeNone, fmt.Errorf("offset bigger than tape: %w", ErrTapeError)
	}

	// Get current value off tape.
	v := i.tape.Tape[i.off]
	i.cur = v & JSONVALUEMASK
	i.t = Tag(v >> 56)
	i.off++
	i.calcNext(false)
	if i.addNext < 0 {
		i.moveToEnd()
		return TypeNone, fmt.Errorf("element has negative offset: %w", ErrTapeError)
	}

	// Calculate end of this object.
	iEnd := i.off + i.addNext
	typ := TagToType[i.t]

	// Copy i if different
	if i != dst {
		*dst = *i
	}
	// Move into dst
	dst.calcNext(true)
	if dst.addNext < 0 {
		i.moveToEnd()
		return TypeNone, fmt.Errorf("element has negative offset: %w", ErrTapeError)
	}

	if iEnd > len(dst.tape.Tape) {
		return TypeNone, fmt.Errorf("element extends beyond tape: %w", ErrTapeError)
	}

	// Restrict destination.
	dst.tape.Tape = dst.tape.Tape[:iEnd]

	return typ, nil
}

// PeekNext will return the next value type.
// Returns TypeNone if next ends iterator.
func (i *Iter) PeekNext() Type {
	if i.off+i.addNext >= len(i.tape.Tape) {
		return TypeNone
	}
	return TagToType[Tag(i.tape.Tape[i.off+i.addNext]>>56)]
}

// PeekNextTag will return the tag at the current offset.
// Will return TagEnd if at end of iterator.
func (i *Iter) PeekNextTag() Tag {
	if i.off+i.addNext >= len(i.tape.Tape) {
		return TagEnd
	}
	return Tag(i.tape.Tape[i.off+i.addNext] >> 56)
}

// MarshalJSON will marshal the entire remaining scope of the iterator.
func (i *Iter) MarshalJSON() ([]byte, error) {
	return i.MarshalJSONBuffer(nil)
}

// MarshalJSONBuffer will marshal the remaining scope of the iterator including the current value.
// An optional buffer can be provided for fewer allocations.
// Output will be appended to the destination.
func (i *Iter) MarshalJSONBuffer(dst []byte) ([]byte, error) {
	// Pre-allocate for 100 deep.
	var stackTmp [100]uint8
	// We have a stackNone on top of the stack
	stack := stackTmp[:1]
	const (
		stackNone = iota
		stackArray
		stackObject
		stackRoot
	)

writeloop:
	for {
		// Write key names.
		if stack[len(stack)-1] == stackObject && i.t != TagObjectEnd {
			sb, err := i.StringBytes()
			if err != nil {
				return nil, fmt.Errorf("expected key within object: %w", err)
			}
			dst = append(dst, '"')
			dst = escapeBytes(dst, sb)
			dst = append(dst, '"', ':')
			if i.PeekNextTag() == TagEnd {
				return nil, fmt.Errorf("unexpected end of tape within object: %w", ErrTapeError)
			}
			i.AdvanceInto()
		}
	tagswitch:
		switch i.t {
		case TagRoot:
			isOpenRoot := int(i.cur) > i.off
			if len(stack) > 1 {
				if isOpenRoot {
					return dst, fmt.Errorf("root tag open, but not at top of stack: %w", ErrTapeError)
				}
				l := stack[len(stack)-1]
				switch l {
				case stackRoot:
					if i.PeekNextTag() != TagEnd {
						dst = append(dst, '\n')
					}
					stack = stack[:len(stack)-1]
					break tagswitch
				case stackNone:
					break writeloop
				default:
					return dst, fmt.Errorf("root tag, but not at top of stack, got id %d: %w", l, ErrTapeError)
				}
			}

			if isOpenRoot {
				// Always move into root.
				i.addNext = 0
			}
			i.AdvanceInto()
			stack = append(stack, stackRoot)
			continue
		case TagString:
			sb, err := i.StringBytes()
			if err != nil {
				return nil, err
			}
			dst = append(dst, '"')
			dst = escapeBytes(dst, sb)
			dst = append(dst, '"')
		case TagInteger:
			v, err := i.Int()
			if err != nil {
				return nil, err
			}
			dst = strconv.AppendInt(dst, v, 10)
		case TagUint:
			v, err := i.Uint()
			if err != nil {
				return nil, err
			}
			dst = strconv.AppendUint(dst, v, 10)
		case TagFloat:
			v, err := i.Float()
			if err != nil {
				return nil, err
			}
			dst, err = appendFloat(dst, v)
			if err != nil {
				return nil, err
			}
		case TagBigInt:
			raw, err := i.BigIntRaw()
			if err != nil {
				return nil, err
			}
			dst = append(dst, raw...)
		case TagNull:
			dst = append(dst, []byte("null")...)
		case TagBoolTrue:
			dst = append(dst, []byte("true")...)
		case TagBoolFalse:
			dst = append(dst, []byte("false")...)
		case TagObjectStart:
			dst = append(dst, '{')
			stack = append(stack, stackObject)
			// We should not emit commas.
			i.AdvanceInto()
			continue
		case TagObjectEnd:
			dst = append(dst, '}')
			if stack[len(stack)-1] != stackObject {
				return dst, fmt.Errorf("end of object with no object on stack: %w", ErrTapeError)
			}
			stack = stack[:len(stack)-1]
		case TagArrayStart:
			dst = append(dst, '[')
			stack = append(stack, stackArray)
			i.AdvanceInto()
			continue
		case TagArrayEnd:
			dst = append(dst, ']')
			if stack[len(stack)-1] != stackArray {
				return nil, fmt.Errorf("end of array with no array on stack: %w", ErrTapeError)
			}
			stack = stack[:len(stack)-1]
		case TagEnd:
			if i.PeekNextTag() == TagEnd {
				return nil, fmt.Errorf("no content queued in iterator: %w", ErrTapeError)
			}
			i.AdvanceInto()
			continue
		}

		if i.PeekNextTag() == TagEnd {
			break
		}
		i.AdvanceInto()

		// Output object separators, etc.
		switch stack[len(stack)-1] {
		case stackArray:
			switch i.t {
			case TagArrayEnd:
			default:
				dst = append(dst, ',')
			}
		case stackObject:
			switch i.t {
			case TagObjectEnd:
			default:
				dst = append(dst, ',')
			}
		}
	}
	if len(stack) > 1 {
		return nil, fmt.Errorf("objects or arrays not closed, left on stack: %v: %w", stack[1:], ErrTapeError)
	}
	return dst, nil
}

// Float returns the float value of the next element.
// Integers are automatically converted to float.
func (i *Iter) Float() (float64, error) {
	switch i.t {
	case TagFloat:
		if i.off >= len(i.tape.Tape) {
			return 0, fmt.Errorf("corrupt input: expected float, but no more values on tape: %w", ErrTapeError)
		}
		return math.Float64frombits(i.tape.Tape[i.off]), nil
	case TagInteger:
		if i.off >= len(i.tape.Tape) {
			return 0, fmt.Errorf("corrupt input: expected integer, but no more values on tape: %w", ErrTapeError)
		}
		return float64(int64(i.tape.Tape[i.off])), nil
	case TagUint:
		if i.off >= len(i.tape.Tape) {
			return 0, fmt.Errorf("corrupt input: expected integer, but no more values on tape: %w", ErrTapeError)
		}
		return float64(i.tape.Tape[i.off]), nil
	default:
		return 0, fmt.Errorf("unable to convert type %v to float: %w", i.t, ErrIncorrectType)
	}
}

// FloatFlags returns the float value of the next element.
// This will include flags from parsing.
// Integers are automatically converted to float.
func (i *Iter) FloatFlags() (float64, FloatFlags, error) {
	switch i.t {
	case TagFloat:
		if i.off >= len(i.tape.Tape) {
			return 0, 0, fmt.Errorf("corrupt input: expected float, but no more values on tape: %w", ErrTapeError)
		}
		return math.Float64frombits(i.tape.Tape[i.off]), FloatFlags(i.cur), nil
	case TagInteger:
		if i.off >= len(i.tape.Tape) {
			return 0, 0, fmt.Errorf("corrupt input: expected integer, but no more values on tape: %w", ErrTapeError)
		}
		return float64(int64(i.tape.Tape[i.off])), 0, nil
	case TagUint:
		if i.off >= len(i.tape.Tape) {
			return 0, 0, fmt.Errorf("corrupt input: expected integer, but no more values on tape: %w", ErrTapeError)
		}
		return float64(i.tape.Tape[i.off]), 0, nil
	default:
		return 0, 0, fmt.Errorf("unable to convert type %v to float: %w", i.t, ErrIncorrectType)
	}
}

// Int returns the integer value of the next element.
// Integers and floats within range are automatically converted.
// Out-of-range values yield ErrIncorrectType, per spec.md 7: the type
// family treats out-of-range as "not that type", not ErrNumberOutOfRange.
func (i *Iter) Int() (int64, error) {
	switch i.t {
	case TagFloat:
		if i.off >= len(i.tape.Tape) {
			return 0, fmt.Errorf("corrupt input: expected float, but no more values on tape: %w", ErrTapeError)
		}
		v := math.Float64frombits(i.tape.Tape[i.off])
		if v > math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("float value out of int64 range: %w", ErrIncorrectType)
		}
		return int64(v), nil
	case TagInteger:
		if i.off >= len(i.tape.Tape) {
			return 0, fmt.Errorf("corrupt input: expected integer, but no more values on tape: %w", ErrTapeError)
		}
		return int64(i.tape.Tape[i.off]), nil
	case TagUint:
		if i.off >= len(i.tape.Tape) {
			return 0, fmt.Errorf("corrupt input: expected integer, but no more values on tape: %w", ErrTapeError)
		}
		v := i.tape.Tape[i.off]
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("unsigned integer value overflows int64: %w", ErrIncorrectType)
		}
		return int64(v), nil
	case TagBigInt:
		return 0, fmt.Errorf("value is a big integer: %w", ErrBigIntError)
	default:
		return 0, fmt.Errorf("unable to convert type %v to int64: %w", i.t, ErrIncorrectType)
	}
}

// Uint returns the unsigned integer value of the next element.
// Positive integers and floats within range are automatically converted.
func (i *Iter) Uint() (uint64, error) {
	switch i.t {
	case TagFloat:
		if i.off >= len(i.tape.Tape) {
			return 0, fmt.Errorf("corrupt input: expected float, but no more values on tape: %w", ErrTapeError)
		}
		v := math.Float64frombits(i.tape.Tape[i.off])
		if v > math.MaxUint64 || v < 0 {
			return 0, fmt.Errorf("float value out of uint64 range: %w", ErrIncorrectType)
		}
		return uint64(v), nil
	case TagInteger:
		if i.off >= len(i.tape.Tape) {
			return 0, fmt.Errorf("corrupt input: expected integer, but no more values on tape: %w", ErrTapeError)
		}
		v := int64(i.tape.Tape[i.off])
		if v < 0 {
			return 0, fmt.Errorf("integer value is negative: %w", ErrIncorrectType)
		}
		return uint64(v), nil
	case TagUint:
		if i.off >= len(i.tape.Tape) {
			return 0, fmt.Errorf("corrupt input: expected integer, but no more values on tape: %w", ErrTapeError)
		}
		return i.tape.Tape[i.off], nil
	case TagBigInt:
		return 0, fmt.Errorf("value is a big integer: %w", ErrBigIntError)
	default:
		return 0, fmt.Errorf("unable to convert type %v to uint64: %w", i.t, ErrIncorrectType)
	}
}

// BigIntRaw returns the raw token text of a big-integer value (spec.md 4.9).
func (i *Iter) BigIntRaw() ([]byte, error) {
	if i.t != TagBigInt {
		return nil, fmt.Errorf("value is not a big integer: %w", ErrIncorrectType)
	}
	if i.off >= len(i.tape.Tape) {
		return nil, fmt.Errorf("corrupt input: expected big integer token, but no more values on tape: %w", ErrTapeError)
	}
	return i.tape.stringByteAt(i.cur, i.tape.Tape[i.off])
}

// String() returns a string value.
func (i *Iter) String() (string, error) {
	if i.t != TagString {
		return "", fmt.Errorf("value is not string: %w", ErrIncorrectType)
	}
	if i.off >= len(i.tape.Tape) {
		return "", fmt.Errorf("corrupt input: no string offset: %w", ErrTapeError)
	}

	return i.tape.stringAt(i.cur, i.tape.Tape[i.off])
}

// StringBytes() returns a byte array.
func (i *Iter) StringBytes() ([]byte, error) {
	if i.t != TagString {
		return nil, fmt.Errorf("value is not string: %w", ErrIncorrectType)
	}
	if i.off >= len(i.tape.Tape) {
		return nil, fmt.Errorf("corrupt input: no string offset on tape: %w", ErrTapeError)
	}
	return i.tape.stringByteAt(i.cur, i.tape.Tape[i.off])
}

// StringCvt() returns a string representation of the value.
// Root, Object and Arrays are not supported.
func (i *Iter) StringCvt() (string, error) {
	switch i.t {
	case TagString:
		return i.String()
	case TagInteger:
		v, err := i.Int()
		return strconv.FormatInt(v, 10), err
	case TagUint:
		v, err := i.Uint()
		return strconv.FormatUint(v, 10), err
	case TagFloat:
		v, err := i.Float()
		if err != nil {
			return "", err
		}
		return floatToString(v)
	case TagBoolFalse:
		return "false", nil
	case TagBoolTrue:
		return "true", nil
	case TagNull:
		return "null", nil
	}
	return "", fmt.Errorf("cannot convert type %s to string: %w", TagToType[i.t], ErrIncorrectType)
}

// Root() returns the object embedded in root as an iterator
// along with the type of the content of the first element of the iterator.
// An optional destination can be supplied to avoid allocations.
func (i *Iter) Root(dst *Iter) (Type, *Iter, error) {
	if i.t != TagRoot {
		return TypeNone, dst, fmt.Errorf("value is not root: %w", ErrIncorrectType)
	}
	if i.cur > uint64(len(i.tape.Tape)) {
		return TypeNone, dst, fmt.Errorf("root element extends beyond tape: %w", ErrTapeError)
	}
	if dst == nil {
		c := *i
		dst = &c
	} else {
		dst.cur = i.cur
		dst.off = i.off
		dst.t = i.t
		dst.tape.Strings = i.tape.Strings
		dst.tape.Message = i.tape.Message
	}
	dst.addNext = 0
	dst.tape.Tape = i.tape.Tape[:i.cur-1]
	return dst.AdvanceInto().Type(), dst, nil
}

// Bool() returns the bool value.
func (i *Iter) Bool() (bool, error) {
	switch i.t {
	case TagBoolTrue:
		return true, nil
	case TagBoolFalse:
		return false, nil
	}
	return false, fmt.Errorf("value is not bool, but %v: %w", i.t, ErrIncorrectType)
}

// Interface returns the value as an interface.
// Objects are returned as map[string]interface{}.
// Arrays are returned as []interface{}.
// Float values are returned as float64.
// Integer values are returned as int64 or uint64.
// String values are returned as string.
// Boolean values are returned as bool.
// Null values are returned as nil.
// Root objects are returned as []interface{}.
func (i *Iter) Interface() (interface{}, error) {
	switch i.t.Type() {
	case TypeUint:
		return i.Uint()
	case TypeInt:
		return i.Int()
	case TypeFloat:
		return i.Float()
	case TypeNull:
		return nil, nil
	case TypeArray:
		arr, err := i.Array(nil)
		if err != nil {
			return nil, err
		}
		return arr.Interface()
	case TypeString:
		return i.String()
	case TypeObject:
		obj, err := i.Object(nil)
		if err != nil {
			return nil, err
		}
		return obj.Map(nil)
	case TypeBool:
		return i.t == TagBoolTrue, nil
	case TypeRoot:
		var dst []interface{}
		var tmp Iter
		for {
			typ, obj, err := i.Root(&tmp)
			if err != nil {
				return nil, err
			}
			if typ == TypeNone {
				break
			}
			elem, err := obj.Interface()
			if err != nil {
				return nil, err
			}
			dst = append(dst, elem)
			typ = i.Advance()
			if typ != TypeRoot {
				break
			}
		}
		return dst, nil
	case TypeNone:
		if i.PeekNextTag() == TagEnd {
			return nil, fmt.Errorf("no content in iterator: %w", ErrEmpty)
		}
		i.Advance()
		return i.Interface()
	default:
	}
	return nil, fmt.Errorf("unknown tag type: %v: %w", i.t, ErrUnexpectedError)
}

// Object will return the next element as an object.
// An optional destination can be given.
func (i *Iter) Object(dst *Object) (*Object, error) {
	if i.t != TagObjectStart {
		return nil, fmt.Errorf("next item is not object: %w", ErrIncorrectType)
	}
	end := i.cur
	if end < uint64(i.off) {
		return nil, fmt.Errorf("corrupt input: object ends at index before start: %w", ErrTapeError)
	}
	if uint64(len(i.tape.Tape)) < end {
		return nil, fmt.Errorf("corrupt input: object extended beyond tape: %w", ErrTapeError)
	}
	if dst == nil {
		dst = &Object{}
	}
	dst.tape.Tape = i.tape.Tape[:end]
	dst.tape.Strings = i.tape.Strings
	dst.tape.Message = i.tape.Message
	dst.off = i.off

	return dst, nil
}

// Array will return the next element as an array.
// An optional destination can be given.
func (i *Iter) Array(dst *Array) (*Array, error) {
	if i.t != TagArrayStart {
		return nil, fmt.Errorf("next item is not array: %w", ErrIncorrectType)
	}
	end := i.cur
	if uint64(len(i.tape.Tape)) < end {
		return nil, fmt.Errorf("corrupt input: array extended beyond tape: %w", ErrTapeError)
	}
	if dst == nil {
		dst = &Array{}
	}
	dst.tape.Tape = i.tape.Tape[:end]
	dst.tape.Strings = i.tape.Strings
	dst.tape.Message = i.tape.Message
	dst.off = i.off

	return dst, nil
}

// Reset clears the parsed document so the buffers can be reused.
func (pj *ParsedJson) Reset() {
	pj.Tape = pj.Tape[:0]
	pj.Strings = pj.Strings[:0]
	pj.Message = pj.Message[:0]
}

func (pj *ParsedJson) currentLoc() uint64 {
	return uint64(len(pj.Tape))
}

func (pj *ParsedJson) writeTape(val uint64, c byte) {
	pj.Tape = append(pj.Tape, val|(uint64(c)<<56))
}

// writeTapeTagVal will write a tag with no embedded value and a value to the tape.
func (pj *ParsedJson) writeTapeTagVal(tag Tag, val uint64) {
	pj.Tape = append(pj.Tape, uint64(tag)<<56, val)
}

func (pj *ParsedJson) writeTapeS64(val int64) {
	pj.writeTapeTagVal(TagInteger, uint64(val))
}

func (pj *ParsedJson) writeTapeU64(val uint64) {
	pj.writeTapeTagVal(TagUint, val)
}

func (pj *ParsedJson) writeTapeDouble(d float64) {
	pj.writeTapeTagVal(TagFloat, math.Float64bits(d))
}

// writeTapeDoubleFlags is writeTapeDouble plus a FloatFlags payload stashed
// in the low bits of the tag word, retrievable via Iter.FloatFlags. Used for
// the one case a JSON number is stored as float even though it matched
// integer notation: a negative zero literal, where the float encoding is
// the only one that preserves the sign (spec.md 4.9).
func (pj *ParsedJson) writeTapeDoubleFlags(d float64, flags FloatFlag) {
	pj.Tape = append(pj.Tape, uint64(TagFloat)<<56|uint64(flags), math.Float64bits(d))
}

func (pj *ParsedJson) annotatePreviousLoc(savedLoc uint64, val uint64) {
	pj.Tape[savedLoc] |= val
}

// Tag indicates the data type of a tape entry
type Tag uint8

const (
	TagString      = Tag('"')
	TagInteger     = Tag('l')
	TagUint        = Tag('u')
	TagFloat       = Tag('d')
	TagBigInt      = Tag('g')
	TagNull        = Tag('n')
	TagBoolTrue    = Tag('t')
	TagBoolFalse   = Tag('f')
	TagObjectStart = Tag('{')
	TagObjectEnd   = Tag('}')
	TagArrayStart  = Tag('[')
	TagArrayEnd    = Tag(']')
	TagRoot        = Tag('r')
	// TagNop marks a tombstoned tape slot produced by Object.DeleteElems; its
	// payload is the number of tape words (including itself) to skip.
	TagNop = Tag('x')
	TagEnd = Tag(0)
)

var tagOpenToClose = [256]Tag{
	TagObjectStart: TagObjectEnd,
	TagArrayStart:  TagArrayEnd,
	TagRoot:        TagRoot,
}

func (t Tag) String() string {
	return string([]byte{byte(t)})
}

// Type is a JSON value type.
type Type uint8

const (
	TypeNone Type = iota
	TypeNull
	TypeString
	TypeInt
	TypeUint
	TypeFloat
	TypeBool
	TypeObject
	TypeArray
	TypeRoot
)

// String returns the type as a string.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "(no type)"
	case TypeNull:
		return "null"
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	case TypeRoot:
		return "root"
	}
	return "(invalid)"
}

// TagToType converts a tag to type.
// For arrays and objects only the start tag will return types.
// All non-existing tags returns TypeNone.
var TagToType = [256]Type{
	TagString:      TypeString,
	TagInteger:     TypeInt,
	TagUint:        TypeUint,
	TagFloat:       TypeFloat,
	TagBigInt:      TypeInt,
	TagNull:        TypeNull,
	TagBoolTrue:    TypeBool,
	TagBoolFalse:   TypeBool,
	TagObjectStart: TypeObject,
	TagArrayStart:  TypeArray,
	TagRoot:        TypeRoot,
}

// Type converts a tag to a type.
// Only basic types and array+object start match a type.
func (t Tag) Type() Type {
	return TagToType[t]
}

// DebugDumpTape prints a human-readable rendering of the tape to stdout.
// It is a development aid, not a logging facility -- kept in the teacher's
// fmt.Printf style (dump_raw_tape in the original), not wired to any
// structured logger.
func (pj *ParsedJson) DebugDumpTape() bool {
	if pj.internal != nil {
		return pj.internal.DebugDumpTape()
	}
	tmp := &internalParsedJson{ParsedJson: *pj, isvalid: true}
	return tmp.DebugDumpTape()
}

func (pj *internalParsedJson) DebugDumpTape() bool {
	if !pj.isvalid {
		return false
	}

	for tapeidx := 0; tapeidx < len(pj.Tape); tapeidx++ {
		tapeVal := pj.Tape[tapeidx]
		ntype := Tag(tapeVal >> 56)
		payload := tapeVal & JSONVALUEMASK
		fmt.Printf("%d : %c\t%d\n", tapeidx, byte(ntype), payload)
		switch ntype {
		case TagString:
			tapeidx++
			if tapeidx >= len(pj.Tape) {
				return false
			}
			length := pj.Tape[tapeidx]
			str, err := pj.stringAt(payload, length)
			if err != nil {
				fmt.Printf("string err: %v\n", err)
				return false
			}
			fmt.Printf("%d : \"%s\"\n", tapeidx, print_with_escapes([]byte(str)))
		case TagInteger, TagUint, TagFloat:
			tapeidx++
			if tapeidx >= len(pj.Tape) {
				return false
			}
			fmt.Printf("%d : %d\n", tapeidx, pj.Tape[tapeidx])
		}
	}
	return true
}

func print_with_escapes(src []byte) string {
	return string(escapeBytes(make([]byte, 0, len(src)+len(src)>>4), src))
}

// escapeBytes will escape JSON bytes.
// Output is appended to dst.
func escapeBytes(dst, src []byte) []byte {
	for _, s := range src {
		switch s {
		case '\b':
			dst = append(dst, '\\', 'b')

		case '\f':
			dst = append(dst, '\\', 'f')

		case '\n':
			dst = append(dst, '\\', 'n')

		case '\r':
			dst = append(dst, '\\', 'r')

		case '"':
			dst = append(dst, '\\', '"')

		case '\t':
			dst = append(dst, '\\', 't')

		case '\\':
			dst = append(dst, '\\', '\\')

		default:
			if s <= 0x1f {
				dst = append(dst, '\\', 'u', '0', '0', valToHex[s>>4], valToHex[s&0xf])
			} else {
				dst = append(dst, s)
			}
		}
	}

	return dst
}

var valToHex = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// floatToString converts a float to string similar to Go stdlib.
func floatToString(f float64) (string, error) {
	var tmp [32]byte
	v, err := appendFloat(tmp[:0], f)
	return string(v), err
}

// appendFloat converts a float to string similar to Go stdlib and appends it to dst.
func appendFloat(dst []byte, f float64) ([]byte, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("INF or NaN number found: %w", ErrNumberError)
	}

	// Convert as if by ES6 number to string conversion.
	// This matches most other JSON generators.
	// See golang.org/issue/6384 and golang.org/issue/14135.
	// Like fmt %g, but the exponent cutoffs are different
	// and exponents themselves are not padded to two digits.
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if abs < 1e-6 || abs >= 1e21 {
			format = 'e'
		}
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst, nil
}
