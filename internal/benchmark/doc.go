// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of a bundler resolving a large module graph:
//   - CUE configuration loading
//   - Specifier classification and redirect lookup
//   - Package root search through symlinked node_modules
//   - End-to-end resolution, single and batched
//
// To generate a profile, run:
//
//	go test -run '^$' -bench . -cpuprofile default.pgo ./internal/benchmark
package benchmark
