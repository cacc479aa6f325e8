// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrCreateDeclined is returned when the operator refuses creation of a
// missing output directory. The bundle operation aborts without retry.
var ErrCreateDeclined = errors.New("output directory creation declined")

// ConfirmFunc asks the operator a yes/no question with a default answer.
// The bundle command wires an interactive prompt here; tests and --yes
// runs inject a canned answer.
type ConfirmFunc func(prompt string, defaultYes bool) (bool, error)

// ResolveOutput decides the absolute archive file path for a requested
// output target:
//
//   - target is an existing directory: <target>/<name>-<version>.tgz
//   - target is an existing file: the target verbatim
//   - target does not exist: a trailing separator marks the whole target
//     as an intended directory; otherwise it splits into parent directory
//     and file name. A missing directory is created after confirmation,
//     and a missing file name is derived from the manifest.
//
// Directory detection always wins over file detection for paths that
// already exist.
func (p *Plugin) ResolveOutput(target string, confirm ConfirmFunc) (string, error) {
	if target == "" {
		target = "."
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}

	if info, err := os.Stat(absTarget); err == nil {
		if info.IsDir() {
			return filepath.Join(absTarget, p.Manifest.ArchiveName()), nil
		}
		return absTarget, nil
	}

	// The target does not exist yet. filepath.Abs strips trailing
	// separators, so the intent check runs on the raw target string.
	dir := absTarget
	fileName := p.Manifest.ArchiveName()
	if !hasTrailingSeparator(target) {
		dir = filepath.Dir(absTarget)
		fileName = filepath.Base(absTarget)
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		ok, err := confirm(fmt.Sprintf("Directory %s does not exist. Create it?", dir), true)
		if err != nil {
			return "", fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrCreateDeclined, dir)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat output directory: %w", err)
	}

	return filepath.Join(dir, fileName), nil
}

// hasTrailingSeparator reports whether the raw path ends with a path
// separator. Forward slashes count on every platform.
func hasTrailingSeparator(path string) bool {
	return strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(os.PathSeparator))
}
