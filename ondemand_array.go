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

// ArrayIterator walks an on-demand array's elements strictly in document
// order, the array counterpart of ObjectIterator. Grounded on
// original_source/include/simdjson/generic/ondemand/array_iterator.h.
type ArrayIterator struct {
	buf     []byte
	idx     []uint32
	pos     int // index of the next element, or ']'
	start   int // pos of the array's first element, for At/reset
	checked bool
	done    bool
}

// Next returns the array's next element. ok is false once the array is
// exhausted.
func (a *ArrayIterator) Next() (elem OnDemandValue, ok bool, err error) {
	if a.done {
		return OnDemandValue{}, false, nil
	}
	_, b, has := odCur(a.idx, a.buf, a.pos)
	if !has {
		return OnDemandValue{}, false, fmt.Errorf("unexpected end of input inside array: %w", ErrTapeError)
	}
	if b == ']' {
		a.done = true
		a.pos++
		return OnDemandValue{}, false, nil
	}

	valuePos := a.pos
	nextPos, err := skipValue(a.buf, a.idx, a.pos)
	if err != nil {
		return OnDemandValue{}, false, err
	}
	a.pos = nextPos

	_, b, has = odCur(a.idx, a.buf, a.pos)
	if !has {
		return OnDemandValue{}, false, fmt.Errorf("unexpected end of input inside array: %w", ErrTapeError)
	}
	if b == ',' {
		a.pos++
	} else if b != ']' {
		return OnDemandValue{}, false, fmt.Errorf("expected ',' or ']' in array: %w", ErrTapeError)
	}

	return OnDemandValue{buf: a.buf, idx: a.idx, pos: valuePos, checked: a.checked}, true, nil
}

// Reset moves the cursor back to the array's first element, so the array
// can be walked again from the start (spec.md 4.8 contract 4). Unlike
// Next, this is always safe to call regardless of checked mode -- it
// rewinds, it doesn't consume.
func (a *ArrayIterator) Reset() {
	a.pos = a.start
	a.done = false
}

// At returns the element at index i, counting from the array's first
// element regardless of the iterator's current position (spec.md 4.8
// contract 4). It resets the cursor first, then walks forward i times;
// at(0) after at(5) re-walks from the start rather than failing.
func (a *ArrayIterator) At(i int) (OnDemandValue, error) {
	if i < 0 {
		return OnDemandValue{}, fmt.Errorf("negative array index %d: %w", i, ErrOutOfBounds)
	}
	a.Reset()
	for n := 0; ; n++ {
		elem, ok, err := a.Next()
		if err != nil {
			return OnDemandValue{}, err
		}
		if !ok {
			return OnDemandValue{}, fmt.Errorf("array index %d out of bounds: %w", i, ErrOutOfBounds)
		}
		if n == i {
			return elem, nil
		}
	}
}

// CountElements reports the number of elements in the array. It walks the
// structural index independently of a's own cursor, so it never disturbs
// Next/At iteration (spec.md 4.8 contract 4's count_elements).
func (a *ArrayIterator) CountElements() (int, error) {
	pos := a.start
	n := 0
	for {
		_, b, ok := odCur(a.idx, a.buf, pos)
		if !ok {
			return 0, fmt.Errorf("unexpected end of input inside array: %w", ErrTapeError)
		}
		if b == ']' {
			return n, nil
		}
		var err error
		pos, err = skipValue(a.buf, a.idx, pos)
		if err != nil {
			return 0, err
		}
		n++

		_, b, ok = odCur(a.idx, a.buf, pos)
		if !ok {
			return 0, fmt.Errorf("unexpected end of input inside array: %w", ErrTapeError)
		}
		if b == ',' {
			pos++
			continue
		}
		if b == ']' {
			return n, nil
		}
		return 0, fmt.Errorf("expected ',' or ']' in array: %w", ErrTapeError)
	}
}
