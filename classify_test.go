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

func TestIsWhitespace(t *testing.T) {
	for _, b := range []byte{' ', '\t', '\n', '\r'} {
		if !isWhitespace(b) {
			t.Errorf("isWhitespace(%q) = false, want true", b)
		}
	}
	for _, b := range []byte{'a', '0', '{', '"'} {
		if isWhitespace(b) {
			t.Errorf("isWhitespace(%q) = true, want false", b)
		}
	}
}

func TestIsOp(t *testing.T) {
	for _, b := range []byte{'{', '}', '[', ']', ',', ':'} {
		if !isOp(b) {
			t.Errorf("isOp(%q) = false, want true", b)
		}
	}
	for _, b := range []byte{'a', ' ', '"', '-'} {
		if isOp(b) {
			t.Errorf("isOp(%q) = true, want false", b)
		}
	}
}

func TestClassifyBlock(t *testing.T) {
	block := make([]byte, 64)
	for i := range block {
		block[i] = 'x'
	}
	block[0] = '{'
	block[1] = ' '
	block[2] = '}'

	whitespace, op := classifyBlock(block)
	if op&(1<<0) == 0 || op&(1<<2) == 0 {
		t.Errorf("expected bits 0 and 2 set in op mask, got %064b", op)
	}
	if whitespace&(1<<1) == 0 {
		t.Errorf("expected bit 1 set in whitespace mask, got %064b", whitespace)
	}
	if op&(1<<1) != 0 || whitespace&(1<<0) != 0 {
		t.Error("op and whitespace masks must not overlap for these bytes")
	}
}
