package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const identityProgram = `{
  "globals": [],
  "functions": [
    {
      "name": "main",
      "seq": 0,
      "nparms": 1,
      "locals": [{"name": "n", "kind": "parameter", "seq": 0}],
      "body": {
        "kind": "BLOCK",
        "children": [
          {"kind": "RETURN_STATEMENT", "children": [{"kind": "IDENTIFIER_DATA", "symbol": "n"}]}
        ]
      }
    }
  ],
  "strings": []
}`

// withResetSeams restores the package-level injection seams after a test
// that overrides one or more of them.
func withResetSeams(t *testing.T) {
	t.Helper()
	origCompile, origCheckHost := compileFn, checkHostFn
	t.Cleanup(func() {
		compileFn = origCompile
		checkHostFn = origCheckHost
	})
}

func writeProgram(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.json")
	be.Err(t, os.WriteFile(path, []byte(content), 0o644), nil)
	return path
}

func TestRunCLINoArgsPrintsUsageAndFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runCLI(nil, &stdout, &stderr)

	be.Equal(t, code, 1)
	be.True(t, strings.Contains(stderr.String(), "usage: vslc"))
	be.Equal(t, stdout.String(), "")
}

func TestRunCLIUnreadableFileFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runCLI([]string{filepath.Join(t.TempDir(), "missing.json")}, &stdout, &stderr)

	be.Equal(t, code, 1)
	be.True(t, strings.Contains(stderr.String(), "read input"))
}

func TestRunCLIMalformedProgramFails(t *testing.T) {
	path := writeProgram(t, `{not json`)

	var stdout, stderr bytes.Buffer
	code := runCLI([]string{path}, &stdout, &stderr)

	be.Equal(t, code, 1)
	be.True(t, strings.Contains(stderr.String(), "decode program"))
}

func TestRunCLIPrintsAssemblyToStdout(t *testing.T) {
	path := writeProgram(t, identityProgram)

	var stdout, stderr bytes.Buffer
	code := runCLI([]string{path}, &stdout, &stderr)

	be.Equal(t, code, 0)
	be.True(t, strings.Contains(stdout.String(), ".globl _func_main"))
	be.Equal(t, stderr.String(), "")
}

func TestRunCLIDumpSlotsWritesToStderr(t *testing.T) {
	path := writeProgram(t, identityProgram)

	var stdout, stderr bytes.Buffer
	code := runCLI([]string{"-dump-slots", path}, &stdout, &stderr)

	be.Equal(t, code, 0)
	be.True(t, strings.Contains(stderr.String(), "main"))
}

func TestRunCLICodegenErrorFails(t *testing.T) {
	// A call site passing the wrong number of arguments to "add" is a
	// recorded fatal codegen error, not a panic.
	path := writeProgram(t, `{
  "globals": [],
  "functions": [
    {
      "name": "add",
      "seq": 0,
      "nparms": 2,
      "locals": [{"name": "a", "kind": "parameter", "seq": 0}, {"name": "b", "kind": "parameter", "seq": 1}],
      "body": {
        "kind": "BLOCK",
        "children": [
          {"kind": "RETURN_STATEMENT", "children": [{"kind": "EXPRESSION", "op": "+", "children": [{"kind": "IDENTIFIER_DATA", "symbol": "a"}, {"kind": "IDENTIFIER_DATA", "symbol": "b"}]}]}
        ]
      }
    },
    {
      "name": "main",
      "seq": 1,
      "nparms": 0,
      "locals": [],
      "body": {
        "kind": "BLOCK",
        "children": [
          {"kind": "RETURN_STATEMENT", "children": [{"kind": "EXPRESSION", "children": [{"kind": "IDENTIFIER_DATA", "symbol": "add"}, {"kind": "BLOCK", "children": [{"kind": "NUMBER_DATA", "value": 1}]}]}]}
        ]
      }
    }
  ],
  "strings": []
}`)

	var stdout, stderr bytes.Buffer
	code := runCLI([]string{path}, &stdout, &stderr)

	be.Equal(t, code, 1)
	be.True(t, strings.Contains(stderr.String(), "codegen"))
	be.Equal(t, stdout.String(), "")
}

func TestRunCLICompileUsesInjectedSeams(t *testing.T) {
	withResetSeams(t)
	path := writeProgram(t, identityProgram)

	var gotAsm, gotOutput string
	checkHostFn = func() error { return nil }
	compileFn = func(asm, output string) error {
		gotAsm, gotOutput = asm, output
		return nil
	}

	var stdout, stderr bytes.Buffer
	code := runCLI([]string{"-compile", "/tmp/out", path}, &stdout, &stderr)

	be.Equal(t, code, 0)
	be.Equal(t, gotOutput, "/tmp/out")
	be.True(t, strings.Contains(gotAsm, ".globl _func_main"))
	be.Equal(t, stdout.String(), "")
}

func TestRunCLICompileFailsWhenHostUnsupported(t *testing.T) {
	withResetSeams(t)
	path := writeProgram(t, identityProgram)

	checkHostFn = func() error { return errors.New("not x86-64") }
	compileFn = func(asm, output string) error {
		t.Fatal("compileFn should not be called when the host check fails")
		return nil
	}

	var stdout, stderr bytes.Buffer
	code := runCLI([]string{"-compile", "/tmp/out", path}, &stdout, &stderr)

	be.Equal(t, code, 1)
	be.True(t, strings.Contains(stderr.String(), "host check"))
}

func TestRunCLICompileFailsWhenCompileFnErrors(t *testing.T) {
	withResetSeams(t)
	path := writeProgram(t, identityProgram)

	checkHostFn = func() error { return nil }
	compileFn = func(asm, output string) error { return errors.New("as: not found") }

	var stdout, stderr bytes.Buffer
	code := runCLI([]string{"-compile", "/tmp/out", path}, &stdout, &stderr)

	be.Equal(t, code, 1)
	be.True(t, strings.Contains(stderr.String(), "compile"))
}

func TestRunCLIUnknownFlagFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runCLI([]string{"-nope"}, &stdout, &stderr)
	be.Equal(t, code, 1)
}
