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

// Command simdjson-bench parses a JSON (or NDJSON, or zstd-compressed)
// file and reports basic timing, optionally cross-checking the decoded
// document tree against one or more other Go JSON decoders. It exists to
// exercise the library end-to-end (spec.md's explicit out-of-core CLI
// scope note) and to give the teacher's go.mod entries for jsoniter and
// sonic -- present but unused by any core file we could find -- a real
// caller, rather than leaving them as decorative requires.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zstd"

	simdjson "github.com/minio/simdjson-sub001"
)

func main() {
	var (
		ndjson    = flag.Bool("ndjson", false, "treat input as newline-delimited JSON")
		comma     = flag.Bool("comma", false, "treat -ndjson input as comma-separated instead of newline-delimited")
		validate  = flag.String("validate-against", "", "cross-check the decoded tree against another decoder: jsoniter, sonic, or stdlib")
		dumpTape  = flag.Bool("dump-tape", false, "print the raw tape after parsing")
		checkOnly = flag.Bool("ondemand", false, "parse with the OnDemand API instead of building a tape")
		roundtrip = flag.Bool("roundtrip-serialize", false, "stream the input through ParseNDStream/SerializeNDStream and report the serialized size")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: simdjson-bench [flags] <file.json|file.ndjson|file.json.zst>")
		os.Exit(2)
	}

	buf, err := readInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "reading input:", err)
		os.Exit(1)
	}

	if *checkOnly {
		if err := runOnDemand(buf); err != nil {
			fmt.Fprintln(os.Stderr, "ondemand parse:", err)
			os.Exit(1)
		}
		return
	}

	if *roundtrip {
		n, err := roundTripSerialize(buf, simdjson.CompressDefault)
		if err != nil {
			fmt.Fprintln(os.Stderr, "roundtrip serialize:", err)
			os.Exit(1)
		}
		fmt.Printf("serialized stream: %d bytes\n", n)
		return
	}

	var opts []simdjson.ParserOption
	if *comma {
		opts = append(opts, simdjson.WithCommaSeparated(true))
	}

	start := time.Now()
	var pj *simdjson.ParsedJson
	if *ndjson {
		pj, err = simdjson.ParseND(buf, nil, opts...)
	} else {
		pj, err = simdjson.Parse(buf, nil, opts...)
	}
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}
	fmt.Printf("parsed %d bytes into %d tape words in %s\n", len(buf), len(pj.Tape), elapsed)

	if *dumpTape {
		pj.DebugDumpTape()
	}

	if *validate != "" {
		if err := crossCheck(*validate, buf, pj); err != nil {
			fmt.Fprintln(os.Stderr, "validation failed:", err)
			os.Exit(1)
		}
		fmt.Println("validation ok:", *validate)
	}
}

func readInput(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer dec.Close()
		return io.ReadAll(dec)
	}
	return io.ReadAll(f)
}

// crossCheck re-decodes buf with an independent decoder and compares its
// interface{} tree against pj.Iter().Root()'s tree, a differential test of
// the kind simdjson-go's own benchmarks_test.go runs against encoding/json.
func crossCheck(against string, buf []byte, pj *simdjson.ParsedJson) error {
	ours, err := decodeOurs(pj)
	if err != nil {
		return fmt.Errorf("decoding our tree: %w", err)
	}

	var theirs interface{}
	switch against {
	case "jsoniter":
		theirs, err = decodeJSONIter(buf)
	case "sonic":
		theirs, err = decodeSonic(buf)
	case "stdlib":
		err = json.Unmarshal(buf, &theirs)
	default:
		return fmt.Errorf("unknown decoder %q", against)
	}
	if err != nil {
		return fmt.Errorf("decoding with %s: %w", against, err)
	}

	if !reflect.DeepEqual(normalize(ours), normalize(theirs)) {
		return fmt.Errorf("decoded trees differ between simdjson-sub001 and %s", against)
	}
	return nil
}

func decodeOurs(pj *simdjson.ParsedJson) (interface{}, error) {
	iter := pj.Iter()
	if iter.Advance() != simdjson.TypeRoot {
		return nil, fmt.Errorf("expected a root value on the tape")
	}
	typ, root, err := iter.Root(nil)
	if err != nil {
		return nil, err
	}
	if typ == simdjson.TypeNone {
		return nil, nil
	}
	return root.Interface()
}

func decodeJSONIter(buf []byte) (interface{}, error) {
	var v interface{}
	err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(buf, &v)
	return v, err
}

func decodeSonic(buf []byte) (interface{}, error) {
	var v interface{}
	err := sonic.Unmarshal(buf, &v)
	return v, err
}

// normalize folds the numeric-type differences between decoders (e.g.
// json.Number vs float64 vs int64) down to float64 so DeepEqual compares
// structure and value, not incidental Go type choices.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			out[i] = normalize(vv)
		}
		return out
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	default:
		return v
	}
}

func runOnDemand(buf []byte) error {
	doc, err := simdjson.ParseOnDemand(buf, simdjson.WithChecked(true))
	if err != nil {
		return err
	}
	root, err := doc.Root()
	if err != nil {
		return err
	}
	typ, err := root.Type()
	if err != nil {
		return err
	}
	fmt.Println("root type:", typ)
	return nil
}

// roundTripSerialize demonstrates SerializeNDStream end to end: it streams
// buf through ParseNDStream and serializes each resulting document,
// reporting the serialized size (see -roundtrip-serialize).
func roundTripSerialize(buf []byte, comp simdjson.CompressMode) (int, error) {
	res := make(chan simdjson.Stream)
	simdjson.ParseNDStream(bytes.NewReader(buf), res)
	var out bytes.Buffer
	err := simdjson.SerializeNDStream(&out, res, nil, 0, comp)
	return out.Len(), err
}
