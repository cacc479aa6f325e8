package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string // returns plugin dir
		wantErr bool
		check   func(t *testing.T, m *Manifest)
	}{
		{
			name: "full manifest",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeManifest(t, dir, `{"name":"my-plugin","version":"1.2.3","main":"src/app.js","bundleMain":"build/out.js"}`)
				return dir
			},
			check: func(t *testing.T, m *Manifest) {
				if m.Name != "my-plugin" || m.Version != "1.2.3" {
					t.Errorf("unexpected manifest: %+v", m)
				}
				if m.Main != "src/app.js" || m.BundleMain != "build/out.js" {
					t.Errorf("unexpected build fields: %+v", m)
				}
			},
		},
		{
			name: "minimal manifest",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeManifest(t, dir, `{"name":"my-plugin","version":"1.2.3"}`)
				return dir
			},
			check: func(t *testing.T, m *Manifest) {
				if m.Main != "" || m.BundleMain != "" {
					t.Errorf("expected empty optional fields, got %+v", m)
				}
			},
		},
		{
			name: "missing file",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: true,
		},
		{
			name: "malformed json",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeManifest(t, dir, `{"name": `)
				return dir
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			m, err := Load(dir)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, m)
			}
		})
	}
}

func TestArchiveName(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		expected string
	}{
		{"name and version", Manifest{Name: "my-plugin", Version: "1.2.3"}, "my-plugin-1.2.3.tgz"},
		{"missing name", Manifest{Version: "0.1.0"}, "plugin-0.1.0.tgz"},
		{"missing version", Manifest{Name: "my-plugin"}, "my-plugin.tgz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.manifest.ArchiveName(); got != tt.expected {
				t.Errorf("ArchiveName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResolveEntry(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		files    []string
		expected string
		wantErr  bool
	}{
		{
			name:     "explicit main wins",
			manifest: Manifest{Main: "src/app.js"},
			files:    []string{"index.js"},
			expected: "src/app.js",
		},
		{
			name:     "index.js preferred",
			files:    []string{"index.js", "index.tsx"},
			expected: "index.js",
		},
		{
			name:     "index.tsx fallback",
			files:    []string{"index.tsx"},
			expected: "index.tsx",
		},
		{
			name:    "nothing resolvable",
			files:   []string{"other.js"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, f), []byte("export {}\n"), 0644); err != nil {
					t.Fatal(err)
				}
			}

			got, err := tt.manifest.ResolveEntry(dir)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveEntry() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ResolveEntry() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResolveEntryIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	// A directory named like a candidate must not satisfy entry resolution.
	if err := os.Mkdir(filepath.Join(dir, "index.js"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.tsx"), []byte("export {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := Manifest{}
	got, err := m.ResolveEntry(dir)
	if err != nil {
		t.Fatalf("ResolveEntry() error: %v", err)
	}
	if got != "index.tsx" {
		t.Errorf("ResolveEntry() = %q, want %q", got, "index.tsx")
	}
}

func TestResolveBundlePath(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		expected string
	}{
		{"default", Manifest{}, filepath.FromSlash("dist/index.js")},
		{"declared bundleMain", Manifest{BundleMain: "build/bundle.js"}, filepath.FromSlash("build/bundle.js")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.manifest.ResolveBundlePath(); got != tt.expected {
				t.Errorf("ResolveBundlePath() = %q, want %q", got, tt.expected)
			}
		})
	}
}
