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

// findNextDocumentIndex scans backward over a chunk's structural index
// looking for the last point at which everything before it forms whole
// documents, so a buffered chunk read from a stream can be split on a
// clean boundary instead of a textual heuristic like a newline.
//
// structurals must not include the trailing {len,len,0} sentinel
// findStructuralIndices appends. It returns how many leading entries of
// structurals belong to complete documents; the rest (if any) is the
// start of a document that continues past the end of the chunk and
// should be re-read together with more input. A return of 0 means no
// boundary could be found at all -- the chunk holds at most one
// (incomplete) document and the caller must grow it.
//
// Ported from original_source's generic/stage1/find_next_document_index.h:
// walk backward until a structural pair is found where the first is not
// one of "{[:," and, once matching pairs of {}/[] have been counted back
// to net zero, the second is not one of "}]:,". That pair marks a
// boundary between one top-level value and the next.
func findNextDocumentIndex(buf []byte, structurals []uint32) int {
	objCnt, arrCnt := 0, 0
	// Stage 1 gives each string two entries (opening and closing quote).
	// Quotes alternate open/close from the start of the chunk, so a count
	// tells them apart while scanning backward: a closing quote is skipped
	// and the opening quote stands for the whole string.
	quotes := 0
	for _, s := range structurals {
		if buf[s] == '"' {
			quotes++
		}
	}
	for i := len(structurals) - 1; i > 0; i-- {
		switch buf[structurals[i]] {
		case '"':
			quotes--
			if quotes%2 == 1 {
				continue
			}
		case ':', ',':
			continue
		case '}':
			objCnt--
			continue
		case ']':
			arrCnt--
			continue
		case '{':
			objCnt++
		case '[':
			arrCnt++
		}
		switch buf[structurals[i-1]] {
		case '{', '[', ':', ',':
			continue
		}
		if objCnt == 0 && arrCnt == 0 {
			// The structural just inspected starts the last document and
			// every bracket after it is matched; the whole chunk is complete.
			return len(structurals)
		}
		return i
	}
	return 0
}

// splitCompleteDocuments finds the byte offset one past the last
// complete top-level JSON value in buf, for use by a streaming reader
// that has to decide how much of a buffered chunk is safe to hand to
// parseMessageNdjson now versus how much to carry over and re-read with
// more input appended. ok is false if buf holds no discoverable
// boundary (e.g. a single document larger than the chunk) and the
// caller should read more before trying again.
func splitCompleteDocuments(buf []byte, step int) (n int, ok bool, utf8OK bool) {
	indexes, valid := findStructuralIndices(buf, step)
	// Strip the trailing {len,len,0} sentinel findStructuralIndices always
	// appends (stage1.go) before handing the array to the boundary scan.
	structurals := indexes[:len(indexes)-3]
	if len(structurals) == 0 {
		return 0, false, valid
	}
	count := findNextDocumentIndex(buf, structurals)
	if count == 0 {
		return 0, false, valid
	}
	if count >= len(structurals) {
		return len(buf), true, valid
	}
	return int(structurals[count]), true, valid
}
