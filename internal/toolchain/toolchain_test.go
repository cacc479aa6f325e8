package toolchain

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDetectPackageManager(t *testing.T) {
	tests := []struct {
		name     string
		lockfile string
		expected string
	}{
		{"pnpm lockfile", "pnpm-lock.yaml", "pnpm"},
		{"yarn lockfile", "yarn.lock", "yarn"},
		{"npm lockfile", "package-lock.json", "npm"},
		{"no lockfile", "", "npm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.lockfile != "" {
				if err := os.WriteFile(filepath.Join(dir, tt.lockfile), []byte(""), 0644); err != nil {
					t.Fatal(err)
				}
			}
			if got := DetectPackageManager(dir); got != tt.expected {
				t.Errorf("DetectPackageManager() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDetectPackageManagerPrefersPnpm(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"pnpm-lock.yaml", "yarn.lock", "package-lock.json"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte(""), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if got := DetectPackageManager(dir); got != "pnpm" {
		t.Errorf("DetectPackageManager() = %q, want pnpm", got)
	}
}

func TestNewDefaults(t *testing.T) {
	tc := New("", "")
	if tc.PackageManager != AutoPackageManager {
		t.Errorf("PackageManager = %q, want %q", tc.PackageManager, AutoPackageManager)
	}
	if tc.Bundler != DefaultBundler {
		t.Errorf("Bundler = %q, want %q", tc.Bundler, DefaultBundler)
	}
}

func TestInstallInvalidCommand(t *testing.T) {
	tc := New("npm 'unterminated", "")
	if err := tc.Install(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected error for unparseable command")
	}
}

func TestInstallRunsInPluginDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	var stdout bytes.Buffer

	// "sh -c pwd" ignores the appended "install" argument ($0) and prints
	// the working directory, proving Dir is the plugin directory.
	tc := New("sh -c pwd", "")
	tc.Stdout = &stdout

	if err := tc.Install(context.Background(), dir); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	got, err := filepath.EvalSymlinks(filepath.Clean(string(bytes.TrimSpace(stdout.Bytes()))))
	if err != nil {
		t.Fatal(err)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("tool ran in %q, want %q", got, want)
	}
}

func TestInstallPropagatesToolFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	tc := New("sh -c 'exit 3'", "")
	err := tc.Install(context.Background(), t.TempDir())
	if err == nil {
		t.Fatal("expected error for failing tool")
	}
}

func TestBuildSubstitutesPlaceholders(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	entry := "index.js"
	if err := os.WriteFile(filepath.Join(dir, entry), []byte("bundle me\n"), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "dist", "index.js")

	// A stand-in bundler: copy {entry} to {output}. Single quotes keep
	// the positional parameters out of shell.Fields expansion.
	tc := New("", `sh -c 'cp -- "$1" "$2"' bundler {entry} {output}`)

	if err := tc.Build(context.Background(), dir, entry, output); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("bundle output missing: %v", err)
	}
	if string(data) != "bundle me\n" {
		t.Errorf("unexpected bundle content %q", data)
	}
}

func TestBuildCreatesOutputParent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	output := filepath.Join(dir, "deep", "nested", "index.js")

	tc := New("", "sh -c true")
	if err := tc.Build(context.Background(), dir, "index.js", output); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(output)); err != nil {
		t.Errorf("output parent directory was not created: %v", err)
	}
}
