// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Pack archives the plugin directory (bundle included) as a gzip'd tar
// at outputFile. The plugin directory name becomes the archive root, so
// unpacking recreates the directory.
func (p *Plugin) Pack(outputFile string) error {
	absOutput, err := filepath.Abs(outputFile)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	out, err := os.Create(absOutput)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}

	gzw := gzip.NewWriter(out)
	tw := tar.NewWriter(gzw)

	rootName := filepath.Base(p.Dir)

	walkErr := filepath.WalkDir(p.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// The archive being written must never pack itself.
		if path == absOutput {
			return nil
		}

		relPath, err := filepath.Rel(p.Dir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		if relPath == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info: %w", err)
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("failed to create tar header: %w", err)
		}
		header.Name = filepath.ToSlash(filepath.Join(rootName, relPath))
		if d.IsDir() {
			header.Name += "/"
		}

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header: %w", err)
		}
		if d.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	})

	if walkErr == nil {
		walkErr = tw.Close()
	} else {
		tw.Close()
	}
	if err := gzw.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if err := out.Close(); err != nil && walkErr == nil {
		walkErr = err
	}

	if walkErr != nil {
		os.Remove(absOutput)
		return fmt.Errorf("failed to pack plugin: %w", walkErr)
	}

	return nil
}

// UnpackOptions contains options for unpacking a plugin archive.
type UnpackOptions struct {
	// Source is the path to the .tgz file or an http(s) URL.
	Source string
	// DestDir is the destination directory (defaults to current directory).
	DestDir string
	// Overwrite allows replacing an existing plugin directory.
	Overwrite bool
}

// Unpack extracts a plugin from a tar.gz archive. Returns the path to
// the extracted plugin directory or an error.
func Unpack(opts UnpackOptions) (string, error) {
	if opts.Source == "" {
		return "", fmt.Errorf("source cannot be empty")
	}

	destDir := opts.DestDir
	if destDir == "" {
		var err error
		destDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	absDestDir, err := filepath.Abs(destDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve destination directory: %w", err)
	}
	if err := os.MkdirAll(absDestDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	archivePath := opts.Source
	if strings.HasPrefix(opts.Source, "http://") || strings.HasPrefix(opts.Source, "https://") {
		tmpFile, err := downloadFile(opts.Source)
		if err != nil {
			return "", fmt.Errorf("failed to download plugin archive: %w", err)
		}
		defer os.Remove(tmpFile)
		archivePath = tmpFile
	}

	rootDir, err := archiveRoot(archivePath)
	if err != nil {
		return "", err
	}

	pluginPath := filepath.Join(absDestDir, rootDir)
	if _, err := os.Stat(pluginPath); err == nil {
		if !opts.Overwrite {
			return "", fmt.Errorf("plugin already exists at %s (use overwrite option to replace)", pluginPath)
		}
		if err := os.RemoveAll(pluginPath); err != nil {
			return "", fmt.Errorf("failed to remove existing plugin: %w", err)
		}
	}

	if err := extractArchive(archivePath, absDestDir); err != nil {
		os.RemoveAll(pluginPath)
		return "", err
	}

	// The extracted directory must be a loadable plugin.
	if _, err := Load(pluginPath); err != nil {
		os.RemoveAll(pluginPath)
		return "", fmt.Errorf("extracted plugin is invalid: %w", err)
	}

	return pluginPath, nil
}

// archiveRoot returns the single top-level directory of the archive.
func archiveRoot(archivePath string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to read archive: %w", err)
	}
	defer gzr.Close()

	root := ""
	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read archive: %w", err)
		}

		name := strings.TrimPrefix(filepath.ToSlash(header.Name), "./")
		parts := strings.SplitN(name, "/", 2)
		if parts[0] == "" {
			continue
		}
		if root == "" {
			root = parts[0]
		} else if parts[0] != root {
			return "", fmt.Errorf("archive has multiple top-level entries (%s, %s); expected a single plugin directory", root, parts[0])
		}
	}

	if root == "" {
		return "", fmt.Errorf("archive is empty")
	}
	return root, nil
}

// extractArchive extracts every entry of the tar.gz archive into destDir,
// rejecting entries that would escape it.
func extractArchive(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		destPath := filepath.Join(destDir, filepath.FromSlash(header.Name))

		relPath, err := filepath.Rel(destDir, destPath)
		if err != nil || strings.HasPrefix(relPath, "..") {
			return fmt.Errorf("invalid path in archive: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(destPath, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
				return fmt.Errorf("failed to create parent directory: %w", err)
			}
			if err := extractFile(tr, destPath, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("failed to extract %s: %w", header.Name, err)
			}
		default:
			// Symlinks and special files are not part of the plugin format.
			continue
		}
	}
}

// extractFile writes a single archive entry to destPath.
func extractFile(r io.Reader, destPath string, mode os.FileMode) error {
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, r)
	return err
}

// downloadFile downloads a URL into a temporary file and returns its path.
func downloadFile(url string) (string, error) {
	tmpFile, err := os.CreateTemp("", "plugpack-*.tgz")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmpFile.Close()

	resp, err := http.Get(url)
	if err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("download failed with status: %s", resp.Status)
	}

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to save downloaded file: %w", err)
	}

	return tmpFile.Name(), nil
}
