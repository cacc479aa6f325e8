package cmd

import (
	"errors"
	"strings"
	"testing"

	"plugpack-cli/internal/config"
	"plugpack-cli/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version = "1.0.0"
	if got := getVersionString(); !strings.HasPrefix(got, "1.0.0") {
		t.Errorf("getVersionString() = %q", got)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	plain := errors.New("plain failure")
	if got := formatErrorForDisplay(plain, false); got != "plain failure" {
		t.Errorf("formatErrorForDisplay() = %q", got)
	}

	ae := issue.NewErrorContext().
		WithOperation("install dependencies").
		WithSuggestion("Check your network connection").
		BuildError()
	got := formatErrorForDisplay(ae, false)
	if !strings.Contains(got, "failed to install dependencies") {
		t.Errorf("missing operation in %q", got)
	}
	if !strings.Contains(got, "Check your network connection") {
		t.Errorf("missing suggestion in %q", got)
	}
}

func TestPackageManagerSetting(t *testing.T) {
	origFlag := bundlePackageManager
	origCfg := cfg
	t.Cleanup(func() {
		bundlePackageManager = origFlag
		cfg = origCfg
	})

	cfg = config.DefaultConfig()
	cfg.Tools.PackageManager = "yarn"

	bundlePackageManager = ""
	if got := packageManagerSetting(); got != "yarn" {
		t.Errorf("config value not used: %q", got)
	}

	bundlePackageManager = "pnpm"
	if got := packageManagerSetting(); got != "pnpm" {
		t.Errorf("flag does not win: %q", got)
	}
}

func TestConfirmFuncAssumeYes(t *testing.T) {
	origFlag := bundleYes
	origCfg := cfg
	t.Cleanup(func() {
		bundleYes = origFlag
		cfg = origCfg
	})

	cfg = config.DefaultConfig()
	bundleYes = true

	ok, err := confirmFunc()("Create it?", true)
	if err != nil || !ok {
		t.Errorf("confirmFunc with --yes = (%v, %v), want (true, nil)", ok, err)
	}

	bundleYes = false
	cfg.UI.AssumeYes = true
	ok, err = confirmFunc()("Create it?", true)
	if err != nil || !ok {
		t.Errorf("confirmFunc with assume_yes = (%v, %v), want (true, nil)", ok, err)
	}
}
