package testutil

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides an isolated package cache and profile tree
type TestEnvironment struct {
	// Core paths
	PackagesDir string
	ProfilesDir string
	ConfigHome  string
	StateHome   string
	DataHome    string

	FS   afero.Fs
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	root := "/virtual"
	switch envType {
	case EnvMemoryOnly:
		env.FS = afero.NewMemMapFs()
	case EnvIsolated:
		root = t.TempDir()
		env.FS = afero.NewOsFs()
	}

	env.PackagesDir = filepath.Join(root, "packages")
	env.ProfilesDir = filepath.Join(root, "profiles")
	env.ConfigHome = filepath.Join(root, "config")
	env.StateHome = filepath.Join(root, "state")
	env.DataHome = filepath.Join(root, "data")

	for _, dir := range []string{env.PackagesDir, env.ProfilesDir, env.ConfigDir()} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	// Only real files can be found through the XDG variables
	if envType == EnvIsolated {
		t.Setenv("XDG_CONFIG_HOME", env.ConfigHome)
		t.Setenv("XDG_STATE_HOME", env.StateHome)
		t.Setenv("XDG_DATA_HOME", env.DataHome)
		xdg.Reload()
	}

	return env
}

// ConfigDir returns the modplan directory inside ConfigHome
func (env *TestEnvironment) ConfigDir() string {
	return filepath.Join(env.ConfigHome, "modplan")
}

// SetupPackage writes an extracted package below PackagesDir and returns
// its directory. Keys are slash paths relative to the package root.
func (env *TestEnvironment) SetupPackage(id string, files map[string]string) string {
	env.t.Helper()

	dir := filepath.Join(env.PackagesDir, id)
	if err := env.FS.MkdirAll(dir, 0755); err != nil {
		env.t.Fatalf("Failed to create package directory: %v", err)
	}
	env.WriteTree(dir, files)
	return dir
}

// Profile returns the path of a profile directory below ProfilesDir
func (env *TestEnvironment) Profile(elem ...string) string {
	return filepath.Join(append([]string{env.ProfilesDir}, elem...)...)
}

// WriteTree writes files below root, creating parent directories
func (env *TestEnvironment) WriteTree(root string, files map[string]string) {
	env.t.Helper()

	for rel, content := range files {
		env.WriteFile(filepath.Join(root, filepath.FromSlash(rel)), content)
	}
}

// WriteFile writes a single file, creating parent directories
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()

	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory %s: %v", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(env.FS, path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// ReadFile returns the content of path, failing the test if it is missing
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()

	data, err := afero.ReadFile(env.FS, path)
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists
func (env *TestEnvironment) Exists(path string) bool {
	env.t.Helper()

	ok, err := afero.Exists(env.FS, path)
	if err != nil {
		env.t.Fatalf("Failed to stat %s: %v", path, err)
	}
	return ok
}
