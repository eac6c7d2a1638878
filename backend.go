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

import "github.com/klauspost/cpuid/v2"

// Backend is the per-architecture SIMD kernel trait from spec.md 9: Stage 1
// is parameterized on a step size (64 or 128 bytes) and on how a block's
// structural bits get computed and scattered. Real AVX2/AVX-512 kernels are
// out of scope for this module (spec.md 1); the two backends below only
// differ in step size, both routed through the same scalar classify/scan
// code in classify.go/strscan.go/utf8.go/stage1.go. This keeps the
// dispatch shape the teacher's SupportedCPU()/build-tag split established
// (simdjson_amd64.go) without fabricating assembly this module can't carry.
type Backend interface {
	// Step returns the block width this backend processes at a time.
	Step() int
	// Name identifies the backend for diagnostics.
	Name() string
}

type step64Backend struct{}

func (step64Backend) Step() int    { return 64 }
func (step64Backend) Name() string { return "scalar-64" }

type step128Backend struct{}

func (step128Backend) Step() int    { return 128 }
func (step128Backend) Name() string { return "scalar-128" }

// SupportedCPU reports whether the running CPU has a usable backend. Every
// CPU the Go toolchain targets has a scalar backend available, so this is
// always true; it is kept (rather than dropped) because cmd/simdjson-bench
// and callers migrating from the teacher's API call it before parsing.
func SupportedCPU() bool {
	return true
}

// selectBackend picks a backend based on the detected CPU. Wide AVX-512
// machines get the 128-byte-step backend (more bytes amortized per loop
// iteration/allocation), everything else gets the 64-byte-step backend --
// this gives klauspost/cpuid a real, exercised decision to make even
// though both backends share one Go implementation under the hood.
func selectBackend() Backend {
	if cpuid.CPU.Supports(cpuid.AVX512F) {
		return step128Backend{}
	}
	return step64Backend{}
}
