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

// ParserOption is a parser option.
type ParserOption func(pj *internalParsedJson) error

// WithCopyStrings will copy strings so they no longer reference the input.
// For enhanced performance, simdjson-go can point back into the original JSON buffer for strings,
// however this can lead to issues in streaming use cases scenarios, or scenarios in which
// the underlying JSON buffer is reused. So the default behaviour is to create copies of all
// strings (not just those transformed anyway for unicode escape characters) into the separate
// Strings buffer (at the expense of using more memory and less performance).
// Default: true - strings are copied.
func WithCopyStrings(b bool) ParserOption {
	return func(pj *internalParsedJson) error {
		pj.copyStrings = b
		return nil
	}
}

// WithCommaSeparated changes ParseND/ParseNDStream to accept a stream of
// comma-separated JSON values (`{...}, {...}, {...}`) instead of newline
// delimited JSON. Default: false - input is treated as NDJSON.
func WithCommaSeparated(b bool) ParserOption {
	return func(pj *internalParsedJson) error {
		pj.commaSeparated = b
		return nil
	}
}

// WithChecked enables the extra at-most-once/consumption bookkeeping used by
// the OnDemand API (see ObjectIterator/ArrayIterator); it has no effect on
// Parse/ParseND. Intended for development builds, mirroring simdjson's
// SIMDJSON_DEVELOPMENT_CHECKS compile option but selectable at runtime since
// this module has no build-tag-gated debug variant. Default: false.
func WithChecked(b bool) ParserOption {
	return func(pj *internalParsedJson) error {
		pj.checked = b
		return nil
	}
}

// WithMaxDepth overrides the maximum nesting depth of objects and arrays
// a single Parse/ParseND call will accept before returning ErrDepthError.
// Default: 128.
func WithMaxDepth(depth int) ParserOption {
	return func(pj *internalParsedJson) error {
		pj.maxDepth = depth
		return nil
	}
}

func (pj *internalParsedJson) applyOptions(opts []ParserOption) error {
	for _, o := range opts {
		if err := o(pj); err != nil {
			return err
		}
	}
	return nil
}

// reset prepares pj (possibly already carrying allocated Tape/Strings
// capacity from a previous parse) for a new parseMessage/parseMessageNdjson
// call without discarding its option settings.
func (pj *internalParsedJson) reset() {
	if !pj.initialized {
		pj.copyStrings = true
		pj.maxDepth = maxdepth
		pj.backend = selectBackend()
		pj.initialized = true
	}
	pj.ParsedJson.Tape = pj.ParsedJson.Tape[:0]
	pj.ParsedJson.Strings = pj.ParsedJson.Strings[:0]
	pj.ParsedJson.Message = nil
	pj.ParsedJson.internal = nil
	pj.isvalid = false
}
