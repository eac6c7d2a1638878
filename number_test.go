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
	"testing"
)

func TestParseNumberValueInt(t *testing.T) {
	num, end, err := parseNumberValue([]byte("1234,"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num.Kind != NumberInt || num.Int != 1234 {
		t.Errorf("got %+v, want NumberInt 1234", num)
	}
	if end != 4 {
		t.Errorf("end = %d, want 4", end)
	}
}

func TestParseNumberValueNegative(t *testing.T) {
	num, _, err := parseNumberValue([]byte("-42"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num.Kind != NumberInt || num.Int != -42 {
		t.Errorf("got %+v, want NumberInt -42", num)
	}
}

func TestParseNumberValueFloat(t *testing.T) {
	num, _, err := parseNumberValue([]byte("12.5e1"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num.Kind != NumberFloat || num.Float != 125 {
		t.Errorf("got %+v, want NumberFloat 125", num)
	}
}

func TestParseNumberValueInt64OverflowToUint(t *testing.T) {
	// 2^63 does not fit in int64 but fits in uint64.
	num, _, err := parseNumberValue([]byte("9223372036854775808"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num.Kind != NumberUint || num.Uint != 9223372036854775808 {
		t.Errorf("got %+v, want NumberUint 9223372036854775808", num)
	}
}

func TestParseNumberValueBigInt(t *testing.T) {
	raw := "123456789012345678901234567890"
	num, _, err := parseNumberValue([]byte(raw), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num.Kind != NumberBigInt || string(num.Raw) != raw {
		t.Errorf("got %+v, want NumberBigInt %q", num, raw)
	}
}

func TestParseNumberValueNegativeZero(t *testing.T) {
	num, _, err := parseNumberValue([]byte("-0"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num.Kind != NumberFloat || num.Flags != FloatOverflowedInteger {
		t.Errorf("got %+v, want NumberFloat with FloatOverflowedInteger flag for -0", num)
	}
}

func TestParseNumberValueInvalid(t *testing.T) {
	if _, _, err := parseNumberValue([]byte("-"), 0); err == nil {
		t.Error("expected error for bare '-'")
	}
}
