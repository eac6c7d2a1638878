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

func TestMinify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{ "a" : 1, "b" : [ 1, 2, 3 ] }`, `{"a":1,"b":[1,2,3]}`},
		{"\t\n{\n  \"x\"\t:\ttrue\n}\n", `{"x":true}`},
		{`"  spaces  inside  a  string  stay  "`, `"  spaces  inside  a  string  stay  "`},
		{`"escaped \" quote"`, `"escaped \" quote"`},
		{`[]`, `[]`},
	}
	for _, tt := range tests {
		dst := make([]byte, 0, len(tt.in))
		n, err := Minify([]byte(tt.in), dst)
		if err != nil {
			t.Fatalf("Minify(%q): unexpected error %v", tt.in, err)
		}
		// Minify returns the length it wrote; dst has room for the whole
		// input, so the output lands in dst's backing array and dst[:n]
		// holds it.
		got := string(dst[:n])
		if got != tt.want {
			t.Errorf("Minify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMinifyUnclosedString(t *testing.T) {
	_, err := Minify([]byte(`{"a": "unterminated`), nil)
	if !errors.Is(err, ErrUnclosedString) {
		t.Fatalf("err = %v, want ErrUnclosedString", err)
	}
}

func TestMinifyUnescapedControlChar(t *testing.T) {
	_, err := Minify([]byte("\"a\x01b\""), nil)
	if !errors.Is(err, ErrUnescapedChars) {
		t.Fatalf("err = %v, want ErrUnescapedChars", err)
	}
}
