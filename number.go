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
	"math"
	"strconv"
)

// isDigit reports whether b is an ASCII decimal digit.
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// numberSpan validates the JSON number grammar starting at buf[start] and
// returns the one-past-the-end offset of the token (spec.md 4.9):
//   number = [ "-" ] int [ frac ] [ exp ]
//   int    = "0" / digit1-9 *digit
//   frac   = "." 1*digit
//   exp    = ("e" / "E") [ "+" / "-" ] 1*digit
func numberSpan(buf []byte, start int) (end int, isFloat bool, err error) {
	n := len(buf)
	i := start
	if i < n && buf[i] == '-' {
		i++
	}
	if i >= n || !isDigit(buf[i]) {
		return i, false, fmt.Errorf("number has no digits: %w", ErrNumberError)
	}
	if buf[i] == '0' {
		i++
	} else {
		for i < n && isDigit(buf[i]) {
			i++
		}
	}
	if i < n && buf[i] == '.' {
		isFloat = true
		i++
		fracStart := i
		for i < n && isDigit(buf[i]) {
			i++
		}
		if i == fracStart {
			return i, isFloat, fmt.Errorf("number has empty fraction: %w", ErrNumberError)
		}
	}
	if i < n && (buf[i] == 'e' || buf[i] == 'E') {
		isFloat = true
		i++
		if i < n && (buf[i] == '+' || buf[i] == '-') {
			i++
		}
		expStart := i
		for i < n && isDigit(buf[i]) {
			i++
		}
		if i == expStart {
			return i, isFloat, fmt.Errorf("number has empty exponent: %w", ErrNumberError)
		}
	}
	return i, isFloat, nil
}

// NumberKind classifies a decoded JSON number (spec.md 4.9) independent of
// any tape encoding -- needed by the OnDemand API (ondemand.go), which has
// no tape word to tag.
type NumberKind uint8

const (
	NumberInt NumberKind = iota
	NumberUint
	NumberFloat
	NumberBigInt
)

// Number is the decoded value of one JSON number token.
type Number struct {
	Kind  NumberKind
	Int   int64
	Uint  uint64
	Float float64
	Flags FloatFlag
	Raw   []byte // raw decimal text; set only when Kind == NumberBigInt
}

// parseNumberValue is C9's decode half: it validates and classifies the
// number token at buf[off] and returns the decoded value plus the offset
// one past the token. Shared by the tape builder (parseNumber, below) and
// the OnDemand API.
//
// Integers that fit int64 classify as NumberInt, positive integers that
// overflow int64 but fit uint64 as NumberUint, and any integer-notation
// token whose magnitude exceeds uint64 as NumberBigInt with its raw decimal
// text kept verbatim -- simdjson-go's own parse_number_amd64.go treated u64
// overflow as a hard NUMBER_ERROR; this module instead preserves the
// literal so callers can still round-trip it (see DESIGN.md, Open Question:
// big-integer classification).
func parseNumberValue(buf []byte, off int) (Number, int, error) {
	end, isFloat, err := numberSpan(buf, off)
	if err != nil {
		return Number{}, end, err
	}
	raw := buf[off:end]

	if isFloat {
		v, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			if !isRangeErr(err) {
				return Number{}, end, fmt.Errorf("invalid number %q: %w", raw, ErrNumberError)
			}
			// Overflowed float64 range: ParseFloat already rounded to
			// +/-Inf; reject, since simdjson treats this as a genuine
			// parse error (spec.md 4.9).
		}
		if math.IsInf(v, 0) {
			return Number{}, end, fmt.Errorf("number %q out of float64 range: %w", raw, ErrNumberError)
		}
		return Number{Kind: NumberFloat, Float: v}, end, nil
	}

	negative := raw[0] == '-'
	if negative {
		v, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			if isRangeErr(err) {
				return Number{Kind: NumberBigInt, Raw: raw}, end, nil
			}
			return Number{}, end, fmt.Errorf("invalid number %q: %w", raw, ErrNumberError)
		}
		if v == 0 {
			// "-0" in integer notation: only the float encoding keeps the sign.
			return Number{Kind: NumberFloat, Float: math.Copysign(0, -1), Flags: FloatOverflowedInteger}, end, nil
		}
		return Number{Kind: NumberInt, Int: v}, end, nil
	}

	v, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		if isRangeErr(err) {
			return Number{Kind: NumberBigInt, Raw: raw}, end, nil
		}
		return Number{}, end, fmt.Errorf("invalid number %q: %w", raw, ErrNumberError)
	}
	if v <= math.MaxInt64 {
		return Number{Kind: NumberInt, Int: int64(v)}, end, nil
	}
	return Number{Kind: NumberUint, Uint: v}, end, nil
}

// parseNumber is C9's tape-writing half. It decodes the number token
// starting at tb.buf[off] and writes the matching tape entry, returning the
// offset one past the token so the caller can resume structural-index
// bookkeeping.
func (tb *tapeBuilder) parseNumber(off int) (int, error) {
	num, end, err := parseNumberValue(tb.buf, off)
	if err != nil {
		return end, err
	}
	switch num.Kind {
	case NumberFloat:
		if num.Flags != 0 {
			tb.pj.writeTapeDoubleFlags(num.Float, num.Flags)
		} else {
			tb.pj.writeTapeDouble(num.Float)
		}
	case NumberInt:
		tb.pj.writeTapeS64(num.Int)
	case NumberUint:
		tb.pj.writeTapeU64(num.Uint)
	case NumberBigInt:
		tb.writeBigInt(num.Raw)
	}
	return end, nil
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// writeBigInt records a too-large-for-uint64 integer literal on the tape,
// keeping its raw decimal text in the string buffer (same layout as a JSON
// string: the tag word holds the buffer offset and the next tape word the
// length, accessible via Iter.BigIntRaw).
func (tb *tapeBuilder) writeBigInt(raw []byte) {
	offset := tb.pj.appendStringBuf(raw)
	tb.pj.Tape = append(tb.pj.Tape, uint64(TagBigInt)<<56|offset, uint64(len(raw)))
}
