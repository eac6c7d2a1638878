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

func TestOnDemandScalarValues(t *testing.T) {
	doc, err := ParseOnDemand([]byte(`{"a":true,"b":false,"c":null,"d":1.5,"e":"hi"}`))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	obj, err := root.Object()
	if err != nil {
		t.Fatalf("Object: %v", err)
	}

	got := map[string]interface{}{}
	for {
		field, ok, err := obj.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		key, err := field.Key.String()
		if err != nil {
			t.Fatalf("Key.String: %v", err)
		}
		typ, err := field.Value.Type()
		if err != nil {
			t.Fatalf("Type: %v", err)
		}
		switch typ {
		case TypeBool:
			b, err := field.Value.Bool()
			if err != nil {
				t.Fatalf("Bool: %v", err)
			}
			got[key] = b
		case TypeNull:
			got[key] = nil
		case TypeFloat:
			f, err := field.Value.Float64()
			if err != nil {
				t.Fatalf("Float64: %v", err)
			}
			got[key] = f
		case TypeString:
			s, err := field.Value.String()
			if err != nil {
				t.Fatalf("String: %v", err)
			}
			str, err := s.String()
			if err != nil {
				t.Fatalf("RawString.String: %v", err)
			}
			got[key] = str
		}
	}

	want := map[string]interface{}{"a": true, "b": false, "c": nil, "d": 1.5, "e": "hi"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("field %q = %v, want %v", k, got[k], v)
		}
	}
}

func TestOnDemandSkipsUnreadFields(t *testing.T) {
	doc, err := ParseOnDemand([]byte(`{"skip_me":[1,2,{"nested":"value"}],"keep":42}`))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	obj, err := root.Object()
	if err != nil {
		t.Fatalf("Object: %v", err)
	}

	value, ok, err := obj.FindKey("keep")
	if err != nil {
		t.Fatalf("FindKey: %v", err)
	}
	if !ok {
		t.Fatal("expected to find key \"keep\" after skipping an unread array field")
	}
	n, err := value.Int64()
	if err != nil {
		t.Fatalf("Int64: %v", err)
	}
	if n != 42 {
		t.Errorf("got %d, want 42", n)
	}
}

func TestOnDemandArrayIteration(t *testing.T) {
	doc, err := ParseOnDemand([]byte(`[1,2,3]`))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	arr, err := root.Array()
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	var got []int64
	for {
		elem, ok, err := arr.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		n, err := elem.Int64()
		if err != nil {
			t.Fatalf("Int64: %v", err)
		}
		got = append(got, n)
	}
	want := []int64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestOnDemandCheckedDoubleConsume(t *testing.T) {
	doc, err := ParseOnDemand([]byte(`true`), WithChecked(true))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if _, err := root.Bool(); err != nil {
		t.Fatalf("first Bool(): %v", err)
	}
	if _, err := root.Bool(); !errors.Is(err, ErrOutOfOrderIteration) {
		t.Fatalf("second Bool(): err = %v, want ErrOutOfOrderIteration", err)
	}
}

func TestOnDemandUncheckedAllowsReuse(t *testing.T) {
	doc, err := ParseOnDemand([]byte(`true`))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if _, err := root.Bool(); err != nil {
		t.Fatalf("first Bool(): %v", err)
	}
	if _, err := root.Bool(); err != nil {
		t.Fatalf("second Bool() should be allowed with WithChecked(false) (the default): %v", err)
	}
}

func TestOnDemandRawStringEscapes(t *testing.T) {
	doc, err := ParseOnDemand([]byte(`"line\nbreak"`))
	if err != nil {
		t.Fatalf("ParseOnDemand: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	rs, err := root.String()
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	got, err := rs.String()
	if err != nil {
		t.Fatalf("RawString.String: %v", err)
	}
	if got != "line\nbreak" {
		t.Errorf("got %q, want %q", got, "line\nbreak")
	}
}
