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
	"errors"
	"testing"
)

const pointerTestDoc = `{"a":{"b":[10,20,30]},"c~d":"tilde and slash: ~0 ~1","e/f":"slash key"}`

func TestOnDemandAtPointer(t *testing.T) {
	doc, err := ParseOnDemand([]byte(pointerTestDoc))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}

	v, err := root.AtPointer("/a/b/1")
	if err != nil {
		t.Fatalf("AtPointer(/a/b/1): %v", err)
	}
	n, err := v.Int64()
	if err != nil {
		t.Fatalf("Int64: %v", err)
	}
	if n != 20 {
		t.Errorf("got %d, want 20", n)
	}
}

func TestOnDemandAtPointerTildeEscape(t *testing.T) {
	doc, err := ParseOnDemand([]byte(pointerTestDoc))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}

	v, err := root.AtPointer("/c~0d")
	if err != nil {
		t.Fatalf("AtPointer(/c~0d): %v", err)
	}
	s, err := v.String()
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	got, err := s.String()
	if err != nil {
		t.Fatalf("RawString.String: %v", err)
	}
	if got != "tilde and slash: ~0 ~1" {
		t.Errorf("got %q", got)
	}
}

func TestOnDemandAtPointerSlashEscape(t *testing.T) {
	doc, err := ParseOnDemand([]byte(pointerTestDoc))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}

	v, err := root.AtPointer("/e~1f")
	if err != nil {
		t.Fatalf("AtPointer(/e~1f): %v", err)
	}
	s, err := v.String()
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	got, err := s.String()
	if err != nil {
		t.Fatalf("RawString.String: %v", err)
	}
	if got != "slash key" {
		t.Errorf("got %q", got)
	}
}

func TestOnDemandAtPointerDashRejected(t *testing.T) {
	doc, err := ParseOnDemand([]byte(pointerTestDoc))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	_, err = root.AtPointer("/a/b/-")
	if !errors.Is(err, ErrInvalidJSONPointer) {
		t.Fatalf("err = %v, want ErrInvalidJSONPointer", err)
	}
}

func TestOnDemandAtPointerOutOfBounds(t *testing.T) {
	doc, err := ParseOnDemand([]byte(pointerTestDoc))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	_, err = root.AtPointer("/a/b/99")
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestOnDemandAtPointerNoSuchField(t *testing.T) {
	doc, err := ParseOnDemand([]byte(pointerTestDoc))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	_, err = root.AtPointer("/nope")
	if !errors.Is(err, ErrNoSuchField) {
		t.Fatalf("err = %v, want ErrNoSuchField", err)
	}
}

func TestOnDemandAtPathWildcard(t *testing.T) {
	doc, err := ParseOnDemand([]byte(`{"items":[{"id":1},{"id":2},{"id":3}]}`))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	values, err := root.AtPath("$.items[*].id")
	if err != nil {
		t.Fatalf("AtPath: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("got %d values, want 3", len(values))
	}
	for i, v := range values {
		n, err := v.Int64()
		if err != nil {
			t.Fatalf("Int64: %v", err)
		}
		if n != int64(i+1) {
			t.Errorf("values[%d] = %d, want %d", i, n, i+1)
		}
	}
}

func TestSplitPointerDanglingEscape(t *testing.T) {
	_, err := splitPointer("/a~")
	if !errors.Is(err, ErrInvalidJSONPointer) {
		t.Fatalf("err = %v, want ErrInvalidJSONPointer", err)
	}
}

func TestIterAtPointer(t *testing.T) {
	pj, err := Parse([]byte(pointerTestDoc), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	iter := pj.Iter()
	if iter.Advance() != TypeRoot {
		t.Fatal("expected root")
	}
	_, rootIter, err := iter.Root(nil)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	v, err := rootIter.AtPointer("/a/b/2")
	if err != nil {
		t.Fatalf("AtPointer(/a/b/2): %v", err)
	}
	n, err := v.Int()
	if err != nil {
		t.Fatalf("Int: %v", err)
	}
	if n != 30 {
		t.Errorf("got %d, want 30", n)
	}
}
