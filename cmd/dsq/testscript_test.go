package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets the dsq test binary re-exec itself as the dsq command
// (rogpeppe/go-internal/testscript's standard harness), so
// testdata/script/*.txtar can shell out to a real "dsq" without a
// separate build step.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"dsq": runMain,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
