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

// The SIMD kernels classify a whole vector register at once by folding each
// byte down to its low nibble, looking that nibble up in a 16-entry table,
// and comparing the result back against the original byte. A scalar Go
// backend has no register to fold, but the table keeps the same shape the
// teacher's AVX2 kernel used (find_whitespace_and_structurals_amd64.go) so
// the classification rule is stated once, here, rather than duplicated as
// bare byte comparisons at every call site.

// whitespaceTable maps a low nibble to the whitespace byte sharing it, or 0.
var whitespaceTable [16]byte

func init() {
	// 0x20 (space), 0x09 (tab), 0x0A (LF), 0x0D (CR) share low nibbles
	// 0, 9, A, D. Any other byte with that nibble is not whitespace, so the
	// table alone is not a sufficient test -- classifyBlock always verifies
	// the full byte, matching the SIMD kernel's compare-after-lookup step.
	whitespaceTable[0x0] = 0x20
	whitespaceTable[0x9] = 0x09
	whitespaceTable[0xA] = 0x0A
	whitespaceTable[0xD] = 0x0D
}

func isWhitespace(b byte) bool {
	return whitespaceTable[b&0xF] == b
}

// opTable maps a low nibble (after OR-ing in 0x20, which folds '[' into '{'
// and ']' into '}') to the matching operator byte, or 0.
var opTable [16]byte

func init() {
	for _, c := range []byte{'{', '}', ',', ':'} {
		opTable[c&0xF] = c
	}
}

// isOp reports whether b is one of the six structural operators, folding
// '[' to '{' and ']' to '}' by OR-ing in 0x20 before the table lookup, the
// same fold-then-verify shape isWhitespace uses. The fold also maps the
// control bytes 0x0C and 0x1A onto ',' and ':', so isOp reports true for
// those two as well; Stage 2 rejects them where it finds them.
func isOp(b byte) bool {
	folded := b | 0x20
	return opTable[folded&0xF] == folded
}

// blockMasks holds the per-block classification produced by C2/C3: one bit
// per input byte, LSB corresponding to the first byte of the block.
type blockMasks struct {
	whitespace uint64
	op         uint64
	backslash  uint64
	quote      uint64
	escaped    uint64
	inString   uint64
}

// classifyBlock computes the whitespace and structural-operator masks for a
// 64-byte block (spec.md 4.2). Scalar bytes are implicitly
// ^(whitespace|op).
func classifyBlock(block []byte) (whitespace, op uint64) {
	for i := 0; i < len(block) && i < 64; i++ {
		b := block[i]
		if isWhitespace(b) {
			whitespace |= 1 << uint(i)
		}
		if isOp(b) {
			op |= 1 << uint(i)
		}
	}
	return
}
