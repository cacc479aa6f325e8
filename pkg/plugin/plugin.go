// SPDX-License-Identifier: MPL-2.0

// Package plugin provides functionality for working with plugin source
// directories: loading and validating them, resolving where the bundled
// archive should be written, and packing/unpacking the distributable
// tar.gz artifact.
//
// A plugin is a directory containing a package.json manifest that names
// the plugin and declares its entry module and bundle output. The bundle
// pipeline (install, compile, pack) consumes a loaded Plugin.
package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"plugpack-cli/pkg/manifest"
)

// ErrNotDirectory is returned by Load when the given path exists but is
// not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Plugin represents a validated plugin source directory.
type Plugin struct {
	// Dir is the absolute path to the plugin directory.
	Dir string
	// Manifest is the decoded package.json.
	Manifest *manifest.Manifest
}

// Load validates that path is an existing directory with a readable
// manifest and returns the Plugin. The path is resolved to absolute so
// every later stage works with stable paths.
func Load(path string) (*Plugin, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("plugin directory does not exist: %s", absPath)
		}
		return nil, fmt.Errorf("failed to stat plugin directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, absPath)
	}

	m, err := manifest.Load(absPath)
	if err != nil {
		return nil, err
	}

	return &Plugin{Dir: absPath, Manifest: m}, nil
}

// BundlePath returns the absolute bundle output file for the compiler,
// derived from the manifest.
func (p *Plugin) BundlePath() string {
	return filepath.Join(p.Dir, p.Manifest.ResolveBundlePath())
}

// Entry resolves the entry module for the compiler, relative to the
// plugin directory.
func (p *Plugin) Entry() (string, error) {
	return p.Manifest.ResolveEntry(p.Dir)
}

// ValidationIssue represents a single validation problem in a plugin.
type ValidationIssue struct {
	// Type categorizes the issue (e.g., "structure", "manifest", "entry").
	Type string
	// Message describes the specific problem.
	Message string
	// Path is the path within the plugin where the issue was found (optional).
	Path string
}

// Error implements the error interface for ValidationIssue.
func (v ValidationIssue) Error() string {
	if v.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", v.Type, v.Path, v.Message)
	}
	return fmt.Sprintf("[%s] %s", v.Type, v.Message)
}

// ValidationResult contains the result of plugin validation.
type ValidationResult struct {
	// Valid is true if the plugin passed all checks.
	Valid bool
	// PluginDir is the absolute path to the validated directory.
	PluginDir string
	// PluginName is the manifest name, when the manifest parsed.
	PluginName string
	// Entry is the resolved entry module, when resolvable.
	Entry string
	// Issues contains all problems found.
	Issues []ValidationIssue
}

// AddIssue adds a validation issue to the result.
func (r *ValidationResult) AddIssue(issueType, message, path string) {
	r.Issues = append(r.Issues, ValidationIssue{
		Type:    issueType,
		Message: message,
		Path:    path,
	})
	r.Valid = false
}

// Validate performs structural validation of a plugin directory without
// building it. Returns a ValidationResult with all issues found, or an
// error if the path cannot be accessed at all.
func Validate(path string) (*ValidationResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	result := &ValidationResult{
		Valid:     true,
		PluginDir: absPath,
		Issues:    []ValidationIssue{},
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.AddIssue("structure", "path does not exist", "")
			return result, nil
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		result.AddIssue("structure", "path is not a directory", "")
		return result, nil
	}

	m, err := manifest.Load(absPath)
	if err != nil {
		result.AddIssue("manifest", err.Error(), manifest.FileName)
		return result, nil
	}

	result.PluginName = m.Name
	if m.Name == "" {
		result.AddIssue("manifest", "name is empty; archive name falls back to 'plugin'", manifest.FileName)
	}
	if m.Version == "" {
		result.AddIssue("manifest", "version is required for archive naming", manifest.FileName)
	}

	entry, err := m.ResolveEntry(absPath)
	if err != nil {
		result.AddIssue("entry", err.Error(), "")
	} else {
		result.Entry = entry
	}

	// The bundle output must stay inside the plugin directory; anything
	// escaping it would be silently dropped from the archive.
	bundleRel := m.ResolveBundlePath()
	if filepath.IsAbs(bundleRel) || strings.HasPrefix(filepath.Clean(bundleRel), "..") {
		result.AddIssue("bundle", fmt.Sprintf("bundleMain %q escapes the plugin directory", m.BundleMain), manifest.FileName)
	}

	return result, nil
}
