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
	"bufio"
	"fmt"
	"io"
)

// Parse parses a single JSON document and returns its tape.
// An optional block of previously parsed json can be supplied in reuse to
// save on allocations for the tape and string buffers.
func Parse(b []byte, reuse *ParsedJson, opts ...ParserOption) (*ParsedJson, error) {
	pj := internalFrom(reuse)
	if err := pj.applyOptions(opts); err != nil {
		return nil, err
	}
	if err := pj.parseMessage(b); err != nil {
		return nil, err
	}
	return pj.exported(), nil
}

// ParseND will parse newline delimited JSON, or (with WithCommaSeparated)
// comma-separated JSON values -- each top-level value is recorded as its
// own root entry on the tape, see Iter.Interface's TypeRoot handling.
// An optional block of previously parsed json can be supplied to reduce allocations.
func ParseND(b []byte, reuse *ParsedJson, opts ...ParserOption) (*ParsedJson, error) {
	pj := internalFrom(reuse)
	if err := pj.applyOptions(opts); err != nil {
		return nil, err
	}
	if err := pj.parseMessageNdjson(b); err != nil {
		return nil, err
	}
	return pj.exported(), nil
}

// internalFrom adapts a reused ParsedJson (or nil) into a fresh internalParsedJson
// ready to receive a new parseMessage/parseMessageNdjson call.
func internalFrom(reuse *ParsedJson) *internalParsedJson {
	var pj *internalParsedJson
	if reuse != nil && reuse.internal != nil {
		pj = reuse.internal
	} else {
		pj = &internalParsedJson{}
	}
	pj.reset()
	return pj
}

// exported detaches the internal bookkeeping struct from the ParsedJson
// returned to callers, while keeping it reachable (via ParsedJson.internal)
// for a future reuse pass.
func (pj *internalParsedJson) exported() *ParsedJson {
	out := pj.ParsedJson
	out.internal = pj
	return &out
}

// A Stream is used to stream back results.
type Stream struct {
	Value *ParsedJson
	Error error
}

// ParseNDStream will parse a stream and return parsed JSON to the supplied result channel.
// Each element is contained within a root tag.
//   <root>Element 1</root><root>Element 2</root>...
// Each result will contain an unspecified number of full elements,
// so it can be assumed that each result starts and ends with a root tag.
// A stream is finished when a non-nil Error is returned.
// If the stream was parsed until the end the Error value will be io.EOF.
// The channel will be closed after an error has been returned.
//
// Document boundaries within a buffered chunk are located structurally
// (find_next_document_index, spec.md 4.5's partial mode), not by
// scanning for a newline -- a WithCommaSeparated stream need not have
// any embedded newlines at all for this to work correctly.
func ParseNDStream(r io.Reader, res chan<- Stream, opts ...ParserOption) {
	const tmpSize = 10 << 20
	buf := bufio.NewReaderSize(r, tmpSize)
	chunk := make([]byte, 0, tmpSize+1024)
	go func() {
		defer close(res)
		var pj internalParsedJson
		pj.reset()
		if err := pj.applyOptions(opts); err != nil {
			res <- Stream{Error: err}
			return
		}
		step := pj.backend.Step()
		eof := false
		for {
			if !eof && len(chunk) < cap(chunk) {
				grow := chunk[len(chunk):cap(chunk)]
				n, err := buf.Read(grow)
				chunk = chunk[:len(chunk)+n]
				if err != nil {
					if err != io.EOF {
						res <- Stream{Error: fmt.Errorf("reading input: %w", err)}
						return
					}
					eof = true
				}
			}
			if len(chunk) == 0 && eof {
				res <- Stream{Error: io.EOF}
				return
			}

			var complete []byte
			if eof {
				complete = chunk
			} else {
				n, ok, utf8OK := splitCompleteDocuments(chunk, step)
				if !utf8OK {
					res <- Stream{Error: fmt.Errorf("parsing input: %w", ErrUTF8Error)}
					return
				}
				if !ok {
					// No boundary found yet: either the chunk holds one
					// document larger than tmpSize, or we just haven't
					// read enough. Grow the buffer and try again.
					if len(chunk) == cap(chunk) {
						grown := make([]byte, len(chunk), cap(chunk)*2)
						copy(grown, chunk)
						chunk = grown
					}
					continue
				}
				complete = chunk[:n]
			}

			if len(complete) > 0 {
				pj.reset()
				parseErr := pj.parseMessageNdjson(complete)
				if parseErr != nil {
					res <- Stream{Error: fmt.Errorf("parsing input: %w", parseErr)}
					return
				}
				out := pj.ParsedJson
				res <- Stream{Value: &out}
			}

			rest := len(chunk) - len(complete)
			copy(chunk[:rest], chunk[len(complete):])
			chunk = chunk[:rest]

			if eof && rest == 0 {
				res <- Stream{Error: io.EOF}
				return
			}
		}
	}()
}
