// SPDX-License-Identifier: MPL-2.0

// Package config loads linkres configuration using Viper with CUE as the
// file format.
//
// The file is looked up, in order, at the path given with --config, at
// linkres.cue in the working directory and at linkres/linkres.cue in the
// user configuration directory. It is validated against the embedded
// linkres_schema.cue. Scalar settings are layered as defaults, then the
// file, then LINKRES_* environment variables. The override table and the
// redirect rules come from the file only.
package config
