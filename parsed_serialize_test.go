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
	"bytes"
	"testing"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	doc := `{"a":1,"b":[1,2,3],"c":{"nested":true},"d":"a string value","e":null}`
	pj, err := Parse([]byte(doc), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for _, comp := range []CompressMode{CompressNone, CompressFast, CompressDefault, CompressBest} {
		s := NewSerializer()
		s.CompressMode(comp)
		out := s.Serialize(nil, *pj)

		back, err := s.Deserialize(out, nil)
		if err != nil {
			t.Fatalf("comp=%v: Deserialize: %v", comp, err)
		}
		if len(back.Tape) != len(pj.Tape) {
			t.Fatalf("comp=%v: tape length = %d, want %d", comp, len(back.Tape), len(pj.Tape))
		}
		iter := back.Iter()
		if iter.Advance() != TypeRoot {
			t.Fatalf("comp=%v: expected root", comp)
		}
		typ, root, err := iter.Root(nil)
		if err != nil {
			t.Fatalf("comp=%v: Root: %v", comp, err)
		}
		if typ != TypeObject {
			t.Fatalf("comp=%v: got root type %v, want TypeObject", comp, typ)
		}
		obj, err := root.Object(nil)
		if err != nil {
			t.Fatalf("comp=%v: Object: %v", comp, err)
		}
		m, err := obj.Map(nil)
		if err != nil {
			t.Fatalf("comp=%v: Map: %v", comp, err)
		}
		if m["d"] != "a string value" {
			t.Errorf("comp=%v: m[d] = %v, want %q", comp, m["d"], "a string value")
		}
	}
}

func TestSerializeNDStreamRoundTrip(t *testing.T) {
	res := make(chan Stream)
	ParseNDStream(bytes.NewReader([]byte("{\"a\":1}\n{\"b\":2}\n{\"c\":3}\n")), res)

	var buf bytes.Buffer
	if err := SerializeNDStream(&buf, res, nil, 0, CompressDefault); err != nil {
		t.Fatalf("SerializeNDStream: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a non-empty serialized stream")
	}
}
