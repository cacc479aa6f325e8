// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the plugin descriptor file (package.json) that
// drives bundling: archive naming, entry-module selection, and the bundle
// output location.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest file expected at the plugin root.
const FileName = "package.json"

// DefaultBundlePath is the bundle output used when the manifest declares
// no bundleMain, relative to the plugin root.
const DefaultBundlePath = "dist/index.js"

// entryCandidates are the conventional entry files probed, in order, when
// the manifest declares no main.
var entryCandidates = []string{"index.js", "index.tsx"}

// Manifest is the plugin descriptor. It is read-only: fields are populated
// from package.json and never written back.
type Manifest struct {
	// Name is the plugin name used for archive naming (optional).
	Name string `json:"name"`
	// Version is required for archive naming.
	Version string `json:"version"`
	// Description is informational only.
	Description string `json:"description"`
	// Main is the entry module relative to the plugin root (optional).
	Main string `json:"main"`
	// BundleMain is the bundle output path relative to the plugin root
	// (optional, defaults to DefaultBundlePath).
	BundleMain string `json:"bundleMain"`
}

// Load reads and decodes the manifest from the given plugin directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &m, nil
}

// ArchiveName derives the distributable file name, <name>-<version>.tgz.
// A missing name falls back to "plugin" so the derived name is never empty.
func (m *Manifest) ArchiveName() string {
	name := m.Name
	if name == "" {
		name = "plugin"
	}
	if m.Version == "" {
		return name + ".tgz"
	}
	return fmt.Sprintf("%s-%s.tgz", name, m.Version)
}

// ResolveEntry returns the entry module for the compiler, relative to dir.
// The manifest's main wins; otherwise the conventional candidates are
// probed in order. An unresolvable entry is an explicit error rather than
// an empty path handed to the compiler.
func (m *Manifest) ResolveEntry(dir string) (string, error) {
	if m.Main != "" {
		return m.Main, nil
	}

	for _, candidate := range entryCandidates {
		if info, err := os.Stat(filepath.Join(dir, candidate)); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no entry file found: declare \"main\" in %s or add one of %v", FileName, entryCandidates)
}

// ResolveBundlePath returns the bundle output path relative to the plugin
// root: the manifest's bundleMain, else DefaultBundlePath.
func (m *Manifest) ResolveBundlePath() string {
	if m.BundleMain != "" {
		return filepath.FromSlash(m.BundleMain)
	}
	return filepath.FromSlash(DefaultBundlePath)
}
