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

// utf8Validator is C4. The teacher's AVX2 kernel maintains three
// shift-by-one lanes of lookback bytes plus an accumulated error lane and
// classifies four bytes at a time via nibble lookup tables
// (original_source/src/generic/stage1/utf8_lookup4_algorithm.h). None of
// that has a useful scalar Go shape -- a classic byte-at-a-time UTF-8
// decode expresses the same rules (continuation/overlong/surrogate/range)
// far more directly, so this component is the one place in Stage 1 that
// departs from "simulate the vector algorithm in scalar code" and instead
// states the rules directly; see DESIGN.md.
//
// The validator still has to run incrementally across block boundaries
// (spec.md 4.4), so it is a stateful object a multi-byte sequence can
// straddle a block edge without re-reading earlier bytes.
type utf8Validator struct {
	// pending holds the bytes of a not-yet-complete multi-byte sequence
	// started in an earlier block.
	pending    [4]byte
	pendingLen int
	need       int // total bytes the in-flight sequence needs
	err        bool
}

// process validates one block, carrying an incomplete multi-byte sequence
// over to the next call and setting err on any invalid byte.
func (v *utf8Validator) process(block []byte) {
	i := 0
	for i < len(block) {
		b := block[i]
		if v.pendingLen == 0 {
			n, lead0 := utf8SeqLen(b)
			if n == 0 {
				v.err = true
				i++
				continue
			}
			if n == 1 {
				i++
				continue
			}
			v.need = n
			v.pending[0] = lead0
			v.pendingLen = 1
			i++
			continue
		}
		if !v.validContinuation(v.pendingLen, b) {
			v.err = true
			v.pendingLen = 0
			continue
		}
		v.pending[v.pendingLen] = b
		v.pendingLen++
		i++
		if v.pendingLen == v.need {
			v.pendingLen = 0
		}
	}
}

// validContinuation checks byte at position pos (1-based within the
// sequence) against the overlong/surrogate/out-of-range rules (spec.md 4.4).
func (v *utf8Validator) validContinuation(pos int, b byte) bool {
	if b&0xC0 != 0x80 {
		return false
	}
	if pos != 1 {
		return true
	}
	lead := v.pending[0]
	switch {
	case lead == 0xE0 && b < 0xA0: // overlong 3-byte
		return false
	case lead == 0xED && b >= 0xA0: // surrogate range
		return false
	case lead == 0xF0 && b < 0x90: // overlong 4-byte
		return false
	case lead == 0xF4 && b >= 0x90: // out-of-range 4-byte
		return false
	}
	return true
}

// finish must be called after the true end of input (not padding) has been
// processed. A non-empty in-flight sequence at that point means the
// multi-byte sequence was truncated.
func (v *utf8Validator) finish() bool {
	if v.pendingLen != 0 {
		v.err = true
	}
	return !v.err
}

// utf8SeqLen classifies a lead byte, returning the total sequence length
// (1-4) and 0 for an invalid lead byte (continuation byte with nothing
// preceding it, overlong 2-byte lead C0/C1, or a 5+ byte lead >= F5 is
// folded into "invalid" by returning 0 here; the F5+ case is handled
// directly since it can't be distinguished from F4 without this check).
func utf8SeqLen(b byte) (n int, lead byte) {
	switch {
	case b < 0x80:
		return 1, b
	case b&0xE0 == 0xC0:
		if b == 0xC0 || b == 0xC1 {
			return 0, 0
		}
		return 2, b
	case b&0xF0 == 0xE0:
		return 3, b
	case b&0xF8 == 0xF0:
		if b >= 0xF5 {
			return 0, 0
		}
		return 4, b
	default:
		return 0, 0
	}
}

// validateUTF8 validates the whole input (not only string contents),
// spec.md 4.4 / P1.
func validateUTF8(buf []byte) bool {
	v := &utf8Validator{}
	v.process(buf)
	return v.finish()
}
