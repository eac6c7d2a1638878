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
	"fmt"
	"strconv"
	"strings"
)

// AtPointer resolves an RFC 6901 JSON pointer against the value's current
// position: "", "/a/b", "/a/0"; the "-" token ("/a/-", the append position)
// names no existing element and yields ErrInvalidJSONPointer, since reading
// past the last element of a read-only array is meaningless. `~0`/`~1` escape `~`
// and `/` within a token, per RFC 6901 section 4.
//
// New relative to the teacher, which only has Object.FindPath operating on
// plain '/'-joined keys with no escaping or array-index support (spec.md
// 4.8's at_pointer contract; edge cases grounded on
// original_source/tests/ondemand/ondemand_json_pointer_tests.cpp).
func (v *OnDemandValue) AtPointer(ptr string) (OnDemandValue, error) {
	tokens, err := splitPointer(ptr)
	if err != nil {
		return OnDemandValue{}, err
	}
	cur := *v
	for _, tok := range tokens {
		typ, err := cur.Type()
		if err != nil {
			return OnDemandValue{}, err
		}
		switch typ {
		case TypeObject:
			obj, err := cur.Object()
			if err != nil {
				return OnDemandValue{}, err
			}
			next, ok, err := obj.FindKey(tok)
			if err != nil {
				return OnDemandValue{}, err
			}
			if !ok {
				return OnDemandValue{}, fmt.Errorf("no such field %q: %w", tok, ErrNoSuchField)
			}
			cur = next
		case TypeArray:
			if tok == "-" {
				return OnDemandValue{}, fmt.Errorf("'-' token has no element in a read-only document: %w", ErrInvalidJSONPointer)
			}
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 {
				return OnDemandValue{}, fmt.Errorf("invalid array index %q: %w", tok, ErrInvalidJSONPointer)
			}
			arr, err := cur.Array()
			if err != nil {
				return OnDemandValue{}, err
			}
			found := false
			for i := 0; ; i++ {
				elem, ok, err := arr.Next()
				if err != nil {
					return OnDemandValue{}, err
				}
				if !ok {
					break
				}
				if i == idx {
					cur = elem
					found = true
					break
				}
			}
			if !found {
				return OnDemandValue{}, fmt.Errorf("array index %d out of bounds: %w", idx, ErrOutOfBounds)
			}
		default:
			return OnDemandValue{}, fmt.Errorf("cannot index into scalar value with pointer %q: %w", ptr, ErrInvalidJSONPointer)
		}
	}
	return cur, nil
}

// splitPointer parses an RFC 6901 pointer into unescaped reference tokens.
func splitPointer(ptr string) ([]string, error) {
	if ptr == "" {
		return nil, nil
	}
	if ptr[0] != '/' {
		return nil, fmt.Errorf("json pointer must start with '/': %w", ErrInvalidJSONPointer)
	}
	parts := strings.Split(ptr[1:], "/")
	out := make([]string, len(parts))
	for i, p := range parts {
		if strings.IndexByte(p, '~') < 0 {
			out[i] = p
			continue
		}
		var b strings.Builder
		for j := 0; j < len(p); j++ {
			if p[j] != '~' {
				b.WriteByte(p[j])
				continue
			}
			if j+1 >= len(p) {
				return nil, fmt.Errorf("dangling '~' escape in pointer token %q: %w", p, ErrInvalidJSONPointer)
			}
			switch p[j+1] {
			case '0':
				b.WriteByte('~')
			case '1':
				b.WriteByte('/')
			default:
				return nil, fmt.Errorf("invalid escape '~%c' in pointer token %q: %w", p[j+1], p, ErrInvalidJSONPointer)
			}
			j++
		}
		out[i] = b.String()
	}
	return out, nil
}

// pathToken is one step of a wildcard path (AtPath): a plain object key,
// a "*" object wildcard, an array index, or a "*" array wildcard.
type pathToken struct {
	key      string
	index    int
	wildcard bool
	isIndex  bool
}

// AtPath resolves a small wildcard path language over a value: "$" (the
// value itself), ".name" (object field), ".*" (every field of an object,
// depth-first), "[n]" (array index), "[*]" (every element). Dotted and
// bracketed steps compose, e.g. "$.items[*].id". New relative to the
// teacher; grounded on spec.md 4.8's at_path contract, which asks for a
// path-wildcard query distinct from plain RFC 6901 pointers.
func (v *OnDemandValue) AtPath(path string) ([]OnDemandValue, error) {
	tokens, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	return walkPath(*v, tokens)
}

func splitPath(path string) ([]pathToken, error) {
	if !strings.HasPrefix(path, "$") {
		return nil, fmt.Errorf("wildcard path must start with '$': %w", ErrInvalidJSONPointer)
	}
	rest := path[1:]
	var tokens []pathToken
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			name := rest[:end]
			if name == "" {
				return nil, fmt.Errorf("empty field name in path %q: %w", path, ErrInvalidJSONPointer)
			}
			tokens = append(tokens, pathToken{key: name, wildcard: name == "*"})
			rest = rest[end:]
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("unterminated '[' in path %q: %w", path, ErrInvalidJSONPointer)
			}
			inner := rest[1:end]
			if inner == "*" {
				tokens = append(tokens, pathToken{isIndex: true, wildcard: true})
			} else {
				idx, err := strconv.Atoi(inner)
				if err != nil || idx < 0 {
					return nil, fmt.Errorf("invalid array index %q in path %q: %w", inner, path, ErrInvalidJSONPointer)
				}
				tokens = append(tokens, pathToken{isIndex: true, index: idx})
			}
			rest = rest[end+1:]
		default:
			return nil, fmt.Errorf("unexpected character %q in path %q: %w", rest[0], path, ErrInvalidJSONPointer)
		}
	}
	return tokens, nil
}

func walkPath(v OnDemandValue, tokens []pathToken) ([]OnDemandValue, error) {
	if len(tokens) == 0 {
		return []OnDemandValue{v}, nil
	}
	tok := tokens[0]
	rest := tokens[1:]

	typ, err := v.Type()
	if err != nil {
		return nil, err
	}

	if tok.isIndex {
		if typ != TypeArray {
			return nil, fmt.Errorf("path expects an array, found %v: %w", typ, ErrInvalidJSONPointer)
		}
		arr, err := v.Array()
		if err != nil {
			return nil, err
		}
		var out []OnDemandValue
		for i := 0; ; i++ {
			elem, ok, err := arr.Next()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			if tok.wildcard || i == tok.index {
				sub, err := walkPath(elem, rest)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
				if !tok.wildcard {
					break
				}
			}
		}
		return out, nil
	}

	if typ != TypeObject {
		return nil, fmt.Errorf("path expects an object, found %v: %w", typ, ErrInvalidJSONPointer)
	}
	obj, err := v.Object()
	if err != nil {
		return nil, err
	}
	var out []OnDemandValue
	for {
		f, ok, err := obj.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if tok.wildcard {
			sub, err := walkPath(f.Value, rest)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		k, err := f.Key.String()
		if err != nil {
			return nil, err
		}
		if k == tok.key {
			sub, err := walkPath(f.Value, rest)
			if err != nil {
				return nil, err
			}
			return sub, nil
		}
	}
	return out, nil
}

// AtPointer resolves an RFC 6901 pointer against a tape-backed document,
// sharing the same token parser as the OnDemand path (above). Reimplemented
// against Iter/Object/Array rather than OnDemandValue since the tape and
// on-demand surfaces don't share a common value interface.
func (i *Iter) AtPointer(ptr string) (Iter, error) {
	tokens, err := splitPointer(ptr)
	if err != nil {
		return Iter{}, err
	}
	cur := *i
	for _, tok := range tokens {
		switch cur.Type() {
		case TypeObject:
			obj, err := cur.Object(nil)
			if err != nil {
				return Iter{}, err
			}
			elem := obj.FindKey(tok, nil)
			if elem == nil {
				return Iter{}, fmt.Errorf("no such field %q: %w", tok, ErrNoSuchField)
			}
			cur = elem.Iter
		case TypeArray:
			if tok == "-" {
				return Iter{}, fmt.Errorf("'-' token has no element in a read-only document: %w", ErrInvalidJSONPointer)
			}
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 {
				return Iter{}, fmt.Errorf("invalid array index %q: %w", tok, ErrInvalidJSONPointer)
			}
			arr, err := cur.Array(nil)
			if err != nil {
				return Iter{}, err
			}
			ai := arr.Iter()
			var elem Iter
			found := false
			for n := 0; ; n++ {
				t, err := ai.AdvanceIter(&elem)
				if err != nil {
					return Iter{}, err
				}
				if t == TypeNone {
					break
				}
				if n == idx {
					found = true
					break
				}
			}
			if !found {
				return Iter{}, fmt.Errorf("array index %d out of bounds: %w", idx, ErrOutOfBounds)
			}
			cur = elem
		default:
			return Iter{}, fmt.Errorf("cannot index into scalar value with pointer %q: %w", ptr, ErrInvalidJSONPointer)
		}
	}
	return cur, nil
}
