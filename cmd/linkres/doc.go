// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the linkres command-line interface: resolving,
// rewriting and classifying module specifiers the way the symlink-aware
// bundler resolver does, and inspecting the effective configuration.
package cmd
