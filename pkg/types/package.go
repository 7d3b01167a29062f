package types

import (
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/modplan/pkg/errors"
)

// Entry is a file or directory at the root of an extracted package
type Entry struct {
	Name  string
	IsDir bool

	// Files lists the regular files below a directory entry as slash
	// separated paths relative to the entry. Empty for file entries.
	Files []string
}

// FileEntry returns a top-level file entry
func FileEntry(name string) Entry {
	return Entry{Name: name}
}

// DirEntry returns a top-level directory entry with the given nested files
func DirEntry(name string, files ...string) Entry {
	return Entry{Name: name, IsDir: true, Files: files}
}

// Package is the listing of one extracted mod package
type Package struct {
	// ID is the package identifier, "<namespace>-<name>".
	ID      string
	Entries []Entry
}

// Paths returns every file of the package as a slash path relative to
// the package root, in entry order.
func (p Package) Paths() []string {
	var out []string
	for _, e := range p.Entries {
		if !e.IsDir {
			out = append(out, e.Name)
			continue
		}
		for _, f := range e.Files {
			out = append(out, path.Join(e.Name, f))
		}
	}
	return out
}

// ValidatePackageID checks that id is a single "<namespace>-<name>" path
// segment. Package ids become directory names inside profiles.
func ValidatePackageID(id string) error {
	namespace, name, ok := strings.Cut(id, "-")
	switch {
	case !ok || namespace == "" || name == "":
		return errors.Newf(errors.ErrInvalidInput, "package id %q is not of the form <namespace>-<name>", id).
			WithDetail("package", id)
	case strings.ContainsAny(id, `/\`) || strings.Contains(id, ".."):
		return errors.Newf(errors.ErrInvalidInput, "package id %q must not contain path separators or ..", id).
			WithDetail("package", id)
	}
	return nil
}

// PackageFromPaths groups slash separated file paths into top-level
// entries. Entries are sorted by name and files within them by path.
func PackageFromPaths(id string, paths []string) Package {
	dirs := make(map[string][]string)
	var names []string
	seen := make(map[string]bool)

	for _, p := range paths {
		p = strings.Trim(path.Clean(p), "/")
		if p == "" || p == "." {
			continue
		}
		head, rest, nested := strings.Cut(p, "/")
		if !seen[head] {
			seen[head] = true
			names = append(names, head)
		}
		if nested {
			dirs[head] = append(dirs[head], rest)
		}
	}

	sort.Strings(names)
	pkg := Package{ID: id}
	for _, name := range names {
		files, isDir := dirs[name]
		if !isDir {
			pkg.Entries = append(pkg.Entries, FileEntry(name))
			continue
		}
		sort.Strings(files)
		pkg.Entries = append(pkg.Entries, DirEntry(name, files...))
	}
	return pkg
}
