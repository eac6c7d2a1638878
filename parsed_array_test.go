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

func arrayFromJSON(t *testing.T, doc string) *Array {
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
	arr, err := root.Array(nil)
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	return arr
}

func TestArrayAsIntegerMixedSignsUpToMaxInt64(t *testing.T) {
	// 9223372036854775807 is math.MaxInt64, the largest literal still
	// tagged TagInteger; one more (2^63) is tagged TagUint and AsInteger
	// rejects it (see TestArrayAsIntegerUint64Overflow).
	arr := arrayFromJSON(t, `[1,-2,9223372036854775807]`)
	got, err := arr.AsInteger()
	if err != nil {
		t.Fatalf("AsInteger: %v", err)
	}
	want := []int64{1, -2, 9223372036854775807}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestArrayAsIntegerUint64Overflow(t *testing.T) {
	arr := arrayFromJSON(t, `[9223372036854775808]`)
	_, err := arr.AsInteger()
	if err == nil {
		t.Fatal("expected an error converting a uint64 > math.MaxInt64 to int64")
	}
}

func TestArrayAsUint64(t *testing.T) {
	arr := arrayFromJSON(t, `[0,1,9223372036854775808]`)
	got, err := arr.AsUint64()
	if err != nil {
		t.Fatalf("AsUint64: %v", err)
	}
	want := []uint64{0, 1, 9223372036854775808}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestArrayAsFloat(t *testing.T) {
	arr := arrayFromJSON(t, `[1, 2.5, -3]`)
	got, err := arr.AsFloat()
	if err != nil {
		t.Fatalf("AsFloat: %v", err)
	}
	want := []float64{1, 2.5, -3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestArrayAsString(t *testing.T) {
	arr := arrayFromJSON(t, `["a","b","c"]`)
	got, err := arr.AsString()
	if err != nil {
		t.Fatalf("AsString: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
