package codegen

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"vslc/internal/driverconfig"
)

// CompileToExecutable assembles and links generated assembly text into a
// runnable ELF binary at outputPath. The assembler and C compiler binaries
// are read from driverconfig so a cross toolchain can be substituted
// without recompiling the driver. Linking goes through the C compiler
// rather than ld directly so the emitted "main" symbol picks up libc's
// crt startup and can resolve printf, strtol, and exit.
func CompileToExecutable(assembly string, outputPath string) error {
	cfg := driverconfig.Load()

	tmpDir, err := os.MkdirTemp("", "vslc-compile-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	asmPath := filepath.Join(tmpDir, "program.s")
	if err := os.WriteFile(asmPath, []byte(assembly), 0o644); err != nil {
		return fmt.Errorf("failed to write assembly: %v", err)
	}

	objPath := filepath.Join(tmpDir, "program.o")
	if cfg.Verbose {
		slog.Info("assembling", "assembler", cfg.Assembler, "input", asmPath, "output", objPath)
	}
	cmd := exec.Command(cfg.Assembler, asmPath, "-o", objPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("assembler failed: %v\n%s", err, output)
	}

	if cfg.Verbose {
		slog.Info("linking", "compiler", cfg.Compiler, "input", objPath, "output", outputPath)
	}
	cmd = exec.Command(cfg.Compiler, "-static", objPath, "-o", outputPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("linker failed: %v\n%s", err, output)
	}

	return nil
}
