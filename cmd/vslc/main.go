// vslc generates x86-64 AT&T assembly from a resolved VSL program.
//
// Usage:
//
//	vslc [-compile output] [-dump-slots] file.json
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"vslc/internal/abi"
	"vslc/internal/codegen"
	"vslc/internal/program"
)

// exitFn, compileFn and checkHostFn are indirected through package
// variables so tests can exercise every exit path of runCLI without
// touching the real process exit status or shelling out to an actual
// assembler and linker.
var (
	exitFn      = os.Exit
	compileFn   = codegen.CompileToExecutable
	checkHostFn = abi.CheckHost
)

func main() {
	exitFn(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

// runCLI implements vslc's behavior against injectable output streams and
// returns the process exit code instead of calling os.Exit itself.
func runCLI(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vslc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	compileTo := fs.String("compile", "", "assemble and link the generated code into this executable instead of printing assembly")
	dumpSlots := fs.Bool("dump-slots", false, "print each function's parameter/local frame-slot assignment to stderr")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: vslc [-compile output] [-dump-slots] file.json")
		return 1
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		logger.Error("read input", "error", err)
		return 1
	}

	prog, err := program.Decode(data)
	if err != nil {
		logger.Error("decode program", "error", err)
		return 1
	}

	if *compileTo != "" {
		if err := checkHostFn(); err != nil {
			logger.Error("host check", "error", err)
			return 1
		}
	}

	cg := codegen.New()
	asm := cg.Generate(prog)

	if *dumpSlots {
		for _, fn := range prog.Globals.Functions() {
			fmt.Fprint(stderr, codegen.DebugSlots(fn))
		}
	}

	if errs := cg.Errors(); len(errs) > 0 {
		for _, e := range errs {
			logger.Error("codegen", "reason", e)
		}
		return 1
	}

	if *compileTo == "" {
		fmt.Fprint(stdout, asm)
		return 0
	}

	if err := compileFn(asm, *compileTo); err != nil {
		logger.Error("compile", "error", err)
		return 1
	}
	return 0
}
