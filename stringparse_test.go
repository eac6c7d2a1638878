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

func TestStringSpan(t *testing.T) {
	tests := []struct {
		in        string
		wantRaw   string
		wantEnd   int
		wantEsc   bool
		wantErr   error
	}{
		{`"hello"`, "hello", 7, false, nil},
		{`""`, "", 2, false, nil},
		{`"a\"b"`, `a\"b`, 6, true, nil},
		{`"unterminated`, "", 0, false, ErrUnclosedString},
	}
	for _, tt := range tests {
		raw, end, hasEscape, err := stringSpan([]byte(tt.in), 0)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("stringSpan(%q): err = %v, want %v", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("stringSpan(%q): unexpected error %v", tt.in, err)
		}
		if string(raw) != tt.wantRaw || end != tt.wantEnd || hasEscape != tt.wantEsc {
			t.Errorf("stringSpan(%q) = (%q, %d, %v), want (%q, %d, %v)",
				tt.in, raw, end, hasEscape, tt.wantRaw, tt.wantEnd, tt.wantEsc)
		}
	}
}

func TestStringSpanControlCharacter(t *testing.T) {
	_, _, _, err := stringSpan([]byte("\"a\x01b\""), 0)
	if !errors.Is(err, ErrUnescapedChars) {
		t.Fatalf("err = %v, want ErrUnescapedChars", err)
	}
}

func TestUnescapeString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`a\"b`, `a"b`},
		{`a\\b`, `a\b`},
		{`a\nb`, "a\nb"},
		{`aAb`, "aAb"},
	}
	for _, tt := range tests {
		got, err := unescapeString([]byte(tt.raw), nil)
		if err != nil {
			t.Fatalf("unescapeString(%q): %v", tt.raw, err)
		}
		if string(got) != tt.want {
			t.Errorf("unescapeString(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestLiteralMatches(t *testing.T) {
	buf := []byte("true, false, null")
	if !literalMatches(buf, 0, "true") {
		t.Error("expected true to match")
	}
	if literalMatches(buf, 0, "false") {
		t.Error("did not expect false to match at offset 0")
	}
	if literalMatches(buf, 0, "truely") {
		t.Error("did not expect truely to match \"true, \" at offset 0")
	}
}
