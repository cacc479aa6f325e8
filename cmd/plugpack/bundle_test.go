package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"plugpack-cli/internal/config"
)

// newTestPlugin creates a minimal plugin directory.
func newTestPlugin(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "my-plugin")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"name":"my-plugin","version":"1.2.3"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.tsx"),
		[]byte("export {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// useTestConfig points the config loader at a scratch directory with
// stand-in tool commands and resets CLI state afterwards.
func useTestConfig(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	if content != "" {
		if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	config.SetConfigDirOverride(dir)

	origCfg := cfg
	t.Cleanup(func() {
		config.SetConfigDirOverride("")
		config.SetConfigFilePathOverride("")
		cfg = origCfg
		bundleOutput = "."
		bundleYes = false
		bundlePackageManager = ""
	})
}

func execute(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestBundleCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	useTestConfig(t, `[tools]
package_manager = "sh -c true"
bundler = "sh -c 'mkdir -p \"$(dirname \"$2\")\" && cp -- \"$1\" \"$2\"' bundler {entry} {output}"
`)

	pluginDir := newTestPlugin(t)
	outDir := t.TempDir()

	if err := execute("bundle", pluginDir, "-o", outDir+string(os.PathSeparator)); err != nil {
		t.Fatalf("bundle failed: %v", err)
	}

	archive := filepath.Join(outDir, "my-plugin-1.2.3.tgz")
	if _, err := os.Stat(archive); err != nil {
		t.Errorf("archive not produced at %s: %v", archive, err)
	}
	// The compile stage must have produced the bundle in the plugin dir.
	if _, err := os.Stat(filepath.Join(pluginDir, "dist", "index.js")); err != nil {
		t.Errorf("bundle file not produced: %v", err)
	}
}

func TestBundleCommandRejectsFileInput(t *testing.T) {
	useTestConfig(t, "")

	file := filepath.Join(t.TempDir(), "not-a-dir.txt")
	if err := os.WriteFile(file, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	err := execute("bundle", file)
	if err == nil {
		t.Fatal("expected error for file input")
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("expected ExitError with code 1, got %v", err)
	}
}

func TestBundleCommandFailsOnInstallError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	useTestConfig(t, `[tools]
package_manager = "sh -c 'exit 7'"
`)

	pluginDir := newTestPlugin(t)
	outDir := t.TempDir()

	err := execute("bundle", pluginDir, "-o", outDir)
	if err == nil {
		t.Fatal("expected error from failing install")
	}
	// No archive may exist after a failed install.
	if _, statErr := os.Stat(filepath.Join(outDir, "my-plugin-1.2.3.tgz")); !os.IsNotExist(statErr) {
		t.Error("archive must not be produced when install fails")
	}
}

func TestValidateCommand(t *testing.T) {
	useTestConfig(t, "")

	if err := execute("validate", newTestPlugin(t)); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	// An empty directory fails validation with exit code 1.
	err := execute("validate", t.TempDir())
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("expected ExitError with code 1, got %v", err)
	}
}

func TestUnpackRoundTripCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	useTestConfig(t, `[tools]
package_manager = "sh -c true"
bundler = "sh -c 'mkdir -p \"$(dirname \"$2\")\" && cp -- \"$1\" \"$2\"' bundler {entry} {output}"
`)

	pluginDir := newTestPlugin(t)
	outDir := t.TempDir()
	if err := execute("bundle", pluginDir, "-o", outDir+string(os.PathSeparator), "--yes"); err != nil {
		t.Fatalf("bundle failed: %v", err)
	}

	dest := t.TempDir()
	archive := filepath.Join(outDir, "my-plugin-1.2.3.tgz")
	if err := execute("unpack", archive, "-p", dest); err != nil {
		t.Fatalf("unpack failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "my-plugin", "package.json")); err != nil {
		t.Errorf("unpacked plugin incomplete: %v", err)
	}
}

func TestExplainCommand(t *testing.T) {
	useTestConfig(t, "")

	if err := execute("explain"); err != nil {
		t.Fatalf("explain list failed: %v", err)
	}
	if err := execute("explain", "entry-not-found"); err != nil {
		t.Fatalf("explain topic failed: %v", err)
	}

	err := execute("explain", "no-such-topic")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Errorf("expected ExitError for unknown topic, got %v", err)
	}
}
