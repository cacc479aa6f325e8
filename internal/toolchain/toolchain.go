// SPDX-License-Identifier: MPL-2.0

// Package toolchain shells out to the two external tools the bundle
// pipeline delegates to: the package manager that materializes the
// plugin's dependency tree and the bundler that compiles the entry
// module into a single file. Both run blocking in the plugin directory
// with their output streamed through; any failure is fatal to the run.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"
)

const (
	// AutoPackageManager selects the package manager from the plugin's
	// lockfile.
	AutoPackageManager = "auto"

	// DefaultBundler is the bundler command template used when the config
	// declares none. {entry} and {output} are substituted per invocation.
	DefaultBundler = "npx esbuild {entry} --bundle --outfile={output}"
)

// Toolchain runs the external tools for a bundle pipeline.
type Toolchain struct {
	// PackageManager is the install command ("npm", "yarn install --frozen-lockfile", ...)
	// or AutoPackageManager for lockfile detection.
	PackageManager string
	// Bundler is the compile command template; {dir}, {entry} and {output}
	// placeholders are substituted before execution.
	Bundler string

	// Stdout and Stderr receive the tools' output (default os.Stdout/os.Stderr).
	Stdout io.Writer
	Stderr io.Writer

	logger *log.Logger
}

// New creates a Toolchain with the given tool commands. Empty strings
// select the defaults.
func New(packageManager, bundler string) *Toolchain {
	if packageManager == "" {
		packageManager = AutoPackageManager
	}
	if bundler == "" {
		bundler = DefaultBundler
	}
	return &Toolchain{
		PackageManager: packageManager,
		Bundler:        bundler,
		logger:         log.Default().WithPrefix("toolchain"),
	}
}

// DetectPackageManager picks the package manager from the lockfile present
// in dir. npm is the fallback when no lockfile is recognized.
func DetectPackageManager(dir string) string {
	lockfiles := []struct {
		file string
		tool string
	}{
		{"pnpm-lock.yaml", "pnpm"},
		{"yarn.lock", "yarn"},
		{"package-lock.json", "npm"},
	}

	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, lf.file)); err == nil {
			return lf.tool
		}
	}
	return "npm"
}

// Install runs `<package manager> install` in the plugin directory.
func (t *Toolchain) Install(ctx context.Context, dir string) error {
	pm := t.PackageManager
	if pm == AutoPackageManager {
		pm = DetectPackageManager(dir)
		t.logger.Debug("detected package manager", "tool", pm)
	}

	argv, err := shell.Fields(pm, nil)
	if err != nil {
		return fmt.Errorf("invalid package manager command %q: %w", pm, err)
	}
	if len(argv) == 0 {
		return fmt.Errorf("package manager command is empty")
	}
	argv = append(argv, "install")

	return t.run(ctx, dir, argv)
}

// Build compiles the entry module into the bundle output file. The
// output's parent directory is created if missing.
func (t *Toolchain) Build(ctx context.Context, dir, entry, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create bundle output directory: %w", err)
	}

	argv, err := shell.Fields(t.Bundler, nil)
	if err != nil {
		return fmt.Errorf("invalid bundler command %q: %w", t.Bundler, err)
	}
	if len(argv) == 0 {
		return fmt.Errorf("bundler command is empty")
	}

	replacer := strings.NewReplacer(
		"{dir}", dir,
		"{entry}", entry,
		"{output}", output,
	)
	for i, arg := range argv {
		argv[i] = replacer.Replace(arg)
	}

	return t.run(ctx, dir, argv)
}

// run executes argv in dir, streaming output through. A non-zero exit
// from the tool surfaces as an error naming the tool and its exit code.
func (t *Toolchain) run(ctx context.Context, dir string, argv []string) error {
	stdout := t.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := t.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = os.Environ()

	t.logger.Debug("running tool", "argv", strings.Join(argv, " "), "dir", dir)
	start := time.Now()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with code %d", argv[0], exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %s: %w", argv[0], err)
	}

	t.logger.Debug("tool finished", "tool", argv[0], "took", time.Since(start))
	return nil
}
