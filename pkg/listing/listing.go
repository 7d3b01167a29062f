// Package listing builds package listings from extracted package
// directories.
package listing

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/modplan/pkg/errors"
	"github.com/arthur-debert/modplan/pkg/logging"
	"github.com/arthur-debert/modplan/pkg/types"
	"github.com/spf13/afero"
)

// FromDir lists the extracted package at root. Every regular file below
// root is grouped under its top-level entry; empty directories and
// symlinks are skipped.
func FromDir(fsys afero.Fs, root, packageID string) (types.Package, error) {
	logger := logging.GetLogger("listing")

	info, err := fsys.Stat(root)
	if err != nil {
		return types.Package{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to read package directory %s", root).
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return types.Package{}, errors.Newf(errors.ErrFileAccess, "package path %s is not a directory", root).
			WithDetail("path", root)
	}

	var paths []string
	err = afero.Walk(fsys, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			if !info.IsDir() {
				logger.Debug().Str("path", p).Msg("Skipping non-regular package file")
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return types.Package{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to walk %s", root).
			WithDetail("path", root)
	}

	pkg := types.PackageFromPaths(packageID, paths)

	logger.Debug().
		Str("package", packageID).
		Int("files", len(paths)).
		Int("entries", len(pkg.Entries)).
		Msg("Listed package")

	return pkg, nil
}
