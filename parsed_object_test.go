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

import "testing"

func objectFromJSON(t *testing.T, doc string) *Object {
	t.Helper()
	pj, err := Parse([]byte(doc), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	iter := pj.Iter()
	if iter.Advance() != TypeRoot {
		t.Fatal("expected root")
	}
	_, root, err := iter.Root(nil)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	obj, err := root.Object(nil)
	if err != nil {
		t.Fatalf("Object: %v", err)
	}
	return obj
}

func TestObjectMap(t *testing.T) {
	obj := objectFromJSON(t, `{"a":1,"b":"two","c":true}`)
	m, err := obj.Map(nil)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(m) != 3 {
		t.Fatalf("got %d keys, want 3: %v", len(m), m)
	}
	if m["b"] != "two" {
		t.Errorf("m[b] = %v, want \"two\"", m["b"])
	}
	if m["c"] != true {
		t.Errorf("m[c] = %v, want true", m["c"])
	}
}

func TestObjectFindKey(t *testing.T) {
	obj := objectFromJSON(t, `{"a":1,"target":"found","z":9}`)
	elem := obj.FindKey("target", nil)
	if elem == nil {
		t.Fatal("FindKey(target) = nil, want a match")
	}
	s, err := elem.Iter.StringCvt()
	if err != nil {
		t.Fatalf("StringCvt: %v", err)
	}
	if s != "found" {
		t.Errorf("got %q, want \"found\"", s)
	}
}

func TestObjectFindKeyMiss(t *testing.T) {
	obj := objectFromJSON(t, `{"a":1}`)
	if elem := obj.FindKey("nope", nil); elem != nil {
		t.Errorf("FindKey(nope) = %+v, want nil", elem)
	}
}

func TestObjectFindPath(t *testing.T) {
	obj := objectFromJSON(t, `{"image":{"url":"http://example.com/a.png","width":640}}`)
	elem, err := obj.FindPath(nil, "image", "url")
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	s, err := elem.Iter.StringCvt()
	if err != nil {
		t.Fatalf("StringCvt: %v", err)
	}
	if s != "http://example.com/a.png" {
		t.Errorf("got %q", s)
	}
}

func TestObjectFindPathNotFound(t *testing.T) {
	obj := objectFromJSON(t, `{"a":{"b":1}}`)
	_, err := obj.FindPath(nil, "a", "missing")
	if err != ErrPathNotFound {
		t.Fatalf("err = %v, want ErrPathNotFound", err)
	}
}
