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

// Field is one key/value pair produced by ObjectIterator.Next.
type Field struct {
	Key   RawString
	Value OnDemandValue
}

// ObjectIterator walks an on-demand object's fields strictly in document
// order. A field's value need not be read before calling Next again -- an
// unread value is skipped over automatically -- but once Next has moved
// past a field it cannot be revisited, matching the forward-only contract
// of spec.md 4.8. Grounded on
// original_source/include/simdjson/generic/ondemand/object_iterator.h.
type ObjectIterator struct {
	buf     []byte
	idx     []uint32
	pos     int // index of the next key's opening quote, or '}'
	start   int // pos of the object's first field, for FindKeyUnordered/reset
	checked bool
	done    bool
}

// Next returns the object's next field. ok is false once the object is
// exhausted; err is non-nil only on malformed input.
func (o *ObjectIterator) Next() (field Field, ok bool, err error) {
	if o.done {
		return Field{}, false, nil
	}
	off, b, has := odCur(o.idx, o.buf, o.pos)
	if !has {
		return Field{}, false, fmt.Errorf("unexpected end of input inside object: %w", ErrTapeError)
	}
	if b == '}' {
		o.done = true
		o.pos++
		return Field{}, false, nil
	}
	if b != '"' {
		return Field{}, false, fmt.Errorf("expected string key in object: %w", ErrTapeError)
	}

	raw, _, hasEscape, err := stringSpan(o.buf, int(off))
	if err != nil {
		return Field{}, false, err
	}
	o.pos += 2 // consume both key quote entries

	_, b, has = odCur(o.idx, o.buf, o.pos)
	if !has || b != ':' {
		return Field{}, false, fmt.Errorf("expected ':' after object key: %w", ErrTapeError)
	}
	o.pos++

	valuePos := o.pos
	nextPos, err := skipValue(o.buf, o.idx, o.pos)
	if err != nil {
		return Field{}, false, err
	}
	o.pos = nextPos

	_, b, has = odCur(o.idx, o.buf, o.pos)
	if !has {
		return Field{}, false, fmt.Errorf("unexpected end of input inside object: %w", ErrTapeError)
	}
	if b == ',' {
		o.pos++
	} else if b != '}' {
		return Field{}, false, fmt.Errorf("expected ',' or '}' in object: %w", ErrTapeError)
	}

	return Field{
		Key:   RawString{raw: raw, hasEscape: hasEscape},
		Value: OnDemandValue{buf: o.buf, idx: o.idx, pos: valuePos, checked: o.checked},
	}, true, nil
}

// FindKey scans forward for key, returning its value. Fields before a
// match (and a non-matching field itself) are skipped, not revisited --
// simdjson's find_field has the same one-shot, forward-only semantics.
func (o *ObjectIterator) FindKey(key string) (OnDemandValue, bool, error) {
	for {
		f, ok, err := o.Next()
		if err != nil || !ok {
			return OnDemandValue{}, false, err
		}
		k, err := f.Key.String()
		if err != nil {
			return OnDemandValue{}, false, err
		}
		if k == key {
			return f.Value, true, nil
		}
	}
}

// FindKeyUnordered is find_field_unordered: it scans forward from the
// current position same as FindKey, but on reaching the end without a
// match it wraps around to the object's first field and keeps scanning
// up to (not past) the position the search started from, so a key that
// precedes the iterator's current position is still found. It wraps at
// most once (spec.md 4.8 contract 3); fields visited during the wrap
// that were already checked before the wrap are not revisited twice.
func (o *ObjectIterator) FindKeyUnordered(key string) (OnDemandValue, bool, error) {
	begin := o.pos
	wrapped := false
	for {
		if o.done {
			if wrapped {
				return OnDemandValue{}, false, nil
			}
			wrapped = true
			o.pos = o.start
			o.done = false
		}
		if wrapped && o.pos == begin {
			return OnDemandValue{}, false, nil
		}

		f, ok, err := o.Next()
		if err != nil {
			return OnDemandValue{}, false, err
		}
		if !ok {
			continue
		}
		k, err := f.Key.String()
		if err != nil {
			return OnDemandValue{}, false, err
		}
		if k == key {
			return f.Value, true, nil
		}
	}
}

// At is the object's subscript accessor (Go has no operator[]): it is
// equivalent to FindKeyUnordered but reports a missing key as
// ErrNoSuchField instead of a plain miss, matching the `[key]` accessor
// of spec.md 4.8 contract 3.
func (o *ObjectIterator) At(key string) (OnDemandValue, error) {
	v, ok, err := o.FindKeyUnordered(key)
	if err != nil {
		return OnDemandValue{}, err
	}
	if !ok {
		return OnDemandValue{}, fmt.Errorf("no such field %q: %w", key, ErrNoSuchField)
	}
	return v, nil
}

// CountFields reports the number of fields in the object. It walks the
// structural index independently of o's own cursor, so it never disturbs
// Next/FindKey iteration (spec.md 4.8 contract 3's count_fields).
func (o *ObjectIterator) CountFields() (int, error) {
	pos := o.start
	n := 0
	for {
		off, b, ok := odCur(o.idx, o.buf, pos)
		if !ok {
			return 0, fmt.Errorf("unexpected end of input inside object: %w", ErrTapeError)
		}
		if b == '}' {
			return n, nil
		}
		if b != '"' {
			return 0, fmt.Errorf("expected string key in object: %w", ErrTapeError)
		}
		if _, _, _, err := stringSpan(o.buf, int(off)); err != nil {
			return 0, err
		}
		pos += 2

		_, b, ok = odCur(o.idx, o.buf, pos)
		if !ok || b != ':' {
			return 0, fmt.Errorf("expected ':' after object key: %w", ErrTapeError)
		}
		pos++

		var err error
		pos, err = skipValue(o.buf, o.idx, pos)
		if err != nil {
			return 0, err
		}
		n++

		_, b, ok = odCur(o.idx, o.buf, pos)
		if !ok {
			return 0, fmt.Errorf("unexpected end of input inside object: %w", ErrTapeError)
		}
		if b == ',' {
			pos++
			continue
		}
		if b == '}' {
			return n, nil
		}
		return 0, fmt.Errorf("expected ',' or '}' in object: %w", ErrTapeError)
	}
}
