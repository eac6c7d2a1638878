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

// blockReader presents the padded input as a stream of fixed-width blocks,
// padding the final, partial block with spaces. Callers must guarantee at
// least step bytes of addressable padding past buf[len(buf)-1]; blockReader
// itself never reads past that boundary -- get_remainder copies only the
// true remainder and fills the rest of the destination with 0x20.
type blockReader struct {
	buf  []byte
	step int
	idx  int
}

func newBlockReader(buf []byte, step int) *blockReader {
	return &blockReader{buf: buf, step: step}
}

// hasFullBlock reports whether a full step-sized block remains.
func (r *blockReader) hasFullBlock() bool {
	return r.idx+r.step <= len(r.buf)
}

// fullBlock returns the current full block. Caller must check hasFullBlock first.
func (r *blockReader) fullBlock() []byte {
	return r.buf[r.idx : r.idx+r.step]
}

// getRemainder copies the tail of the input into dst, padding the rest with
// spaces. Returns the number of real bytes copied; 0 means idx == len(buf).
func (r *blockReader) getRemainder(dst []byte) int {
	remain := len(r.buf) - r.idx
	if remain <= 0 {
		return 0
	}
	if remain > len(dst) {
		remain = len(dst)
	}
	n := copy(dst, r.buf[r.idx:r.idx+remain])
	for i := n; i < len(dst); i++ {
		dst[i] = ' '
	}
	return n
}

func (r *blockReader) advance() {
	r.idx += r.step
}

func (r *blockReader) blockIndex() int {
	return r.idx
}
