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

func TestValidateUTF8Valid(t *testing.T) {
	tests := [][]byte{
		[]byte("hello"),
		[]byte("héllo"),           // 2-byte sequence
		[]byte("日本語"),            // 3-byte sequences
		[]byte("\xF0\x9F\x98\x80"), // 4-byte emoji
		{},
	}
	for _, tt := range tests {
		if !validateUTF8(tt) {
			t.Errorf("validateUTF8(%q) = false, want true", tt)
		}
	}
}

func TestValidateUTF8Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"lone continuation byte", []byte{0x80}},
		{"overlong 2-byte", []byte{0xC0, 0x80}},
		{"overlong 3-byte", []byte{0xE0, 0x80, 0x80}},
		{"surrogate range", []byte{0xED, 0xA0, 0x80}},
		{"overlong 4-byte", []byte{0xF0, 0x80, 0x80, 0x80}},
		{"out of range 4-byte", []byte{0xF4, 0x90, 0x80, 0x80}},
		{"truncated 2-byte at EOF", []byte{0xC3}},
		{"truncated 3-byte at EOF", []byte{0xE2, 0x82}},
		{"invalid 5-byte lead", []byte{0xF8, 0x80, 0x80, 0x80, 0x80}},
	}
	for _, tt := range tests {
		if validateUTF8(tt.in) {
			t.Errorf("%s: validateUTF8(% x) = true, want false", tt.name, tt.in)
		}
	}
}
