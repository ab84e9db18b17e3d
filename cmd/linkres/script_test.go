// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"runtime"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	// The test binary doubles as the linkres executable inside scripts.
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"linkres": Main,
	}))
}

// TestCLI runs all testscript tests in the testdata directory against a
// real filesystem, including real symlinks.
func TestCLI(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("scripts create POSIX symlinks")
	}

	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			// Keep the user configuration directory inside the sandbox.
			env.Setenv("XDG_CONFIG_HOME", env.WorkDir+"/.config")
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"expandenv": cmdExpandEnv,
		},
		// Continue running all tests even if one fails
		ContinueOnError: true,
	})
}

// cmdExpandEnv rewrites each named file with $VAR references replaced by the
// script's environment, so fixtures can embed absolute $WORK paths.
func cmdExpandEnv(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("unsupported: ! expandenv")
	}
	if len(args) == 0 {
		ts.Fatalf("usage: expandenv file...")
	}
	for _, name := range args {
		data := ts.ReadFile(name)
		ts.Check(os.WriteFile(ts.MkAbs(name), []byte(os.Expand(data, ts.Getenv)), 0o644))
	}
}
