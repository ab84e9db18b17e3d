// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE plumbing behind linkres configuration
// files: schema-validated decoding with path-annotated errors, and encoding
// Go values back to formatted CUE.
//
// # Usage
//
//	//go:embed linkres_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[fileConfig](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("linkres.cue"),
//	    cueutil.WithConcrete(false),
//	)
//	if err != nil {
//	    return nil, err // error includes the CUE path of the offending field
//	}
package cueutil
