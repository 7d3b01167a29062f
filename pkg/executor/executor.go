package executor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arthur-debert/modplan/pkg/errors"
	"github.com/arthur-debert/modplan/pkg/logging"
	"github.com/arthur-debert/modplan/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Result summarises what Apply did
type Result struct {
	// Written lists destinations that were created or replaced.
	Written []string
	// Preserved lists destinations left alone because they already
	// existed and the plan marked them as user-editable.
	Preserved []string
	// Tracked lists the written destinations the manager owns.
	Tracked []string
}

// Executor copies planned files from an extracted package into a profile
type Executor struct {
	fs     afero.Fs
	logger zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an executor operating on fsys
func New(fsys afero.Fs) *Executor {
	return &Executor{
		fs:     fsys,
		logger: logging.GetLogger("executor"),
		locks:  make(map[string]*sync.Mutex),
	}
}

// lock serializes operations targeting the same profile root
func (e *Executor) lock(profileRoot string) func() {
	key := filepath.Clean(profileRoot)

	e.mu.Lock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Apply executes plan, reading sources below packageRoot and writing
// destinations below profileRoot. Preserved entries never overwrite an
// existing file, whoever put it there. Cancellation is checked between
// files; files already written stay in place.
func (e *Executor) Apply(ctx context.Context, plan *types.Plan, packageRoot, profileRoot string) (*Result, error) {
	unlock := e.lock(profileRoot)
	defer unlock()

	done := logging.LogOperationStart(e.logger, "apply")
	defer done()

	result := &Result{}
	for _, entry := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrap(err, errors.ErrCanceled, "plan execution canceled")
		}

		src, err := resolve(packageRoot, entry.Source)
		if err != nil {
			return result, err
		}
		dst, err := resolve(profileRoot, entry.Destination)
		if err != nil {
			return result, err
		}

		if entry.Preserve {
			exists, err := afero.Exists(e.fs, dst)
			if err != nil {
				return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to check %s", dst).
					WithDetail("path", dst)
			}
			if exists {
				e.logger.Debug().Str("destination", entry.Destination).Msg("Preserving existing file")
				result.Preserved = append(result.Preserved, entry.Destination)
				continue
			}
		}

		if err := e.copyFile(src, dst); err != nil {
			return result, err
		}

		result.Written = append(result.Written, entry.Destination)
		if entry.Tracked {
			result.Tracked = append(result.Tracked, entry.Destination)
		}
	}

	e.logger.Info().
		Int("written", len(result.Written)).
		Int("preserved", len(result.Preserved)).
		Str("profile", profileRoot).
		Msg("Applied placement plan")

	return result, nil
}

func (e *Executor) copyFile(src, dst string) error {
	in, err := e.fs.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", src).
			WithDetail("path", src)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", src).
			WithDetail("path", src)
	}

	if err := e.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dst)).
			WithDetail("path", filepath.Dir(dst))
	}

	out, err := e.fs.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", dst).
			WithDetail("path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", dst).
			WithDetail("path", dst)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to close %s", dst).
			WithDetail("path", dst)
	}
	return nil
}

// Uninstall removes tracked destinations below profileRoot and prunes
// directories left empty. Missing files are not an error. It returns the
// destinations actually removed.
func (e *Executor) Uninstall(ctx context.Context, profileRoot string, tracked []string) ([]string, error) {
	unlock := e.lock(profileRoot)
	defer unlock()

	root := filepath.Clean(profileRoot)
	var removed []string
	for _, rel := range tracked {
		if err := ctx.Err(); err != nil {
			return removed, errors.Wrap(err, errors.ErrCanceled, "uninstall canceled")
		}

		dst, err := resolve(root, rel)
		if err != nil {
			return removed, err
		}
		if err := e.fs.Remove(dst); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.Wrapf(err, errors.ErrFileWrite, "failed to remove %s", dst).
				WithDetail("path", dst)
		}
		removed = append(removed, rel)
		e.pruneEmptyParents(root, filepath.Dir(dst))
	}

	e.logger.Info().Int("removed", len(removed)).Str("profile", profileRoot).Msg("Removed tracked files")
	return removed, nil
}

// resolve joins a plan path onto root, refusing paths that leave it
func resolve(root, rel string) (string, error) {
	root = filepath.Clean(root)
	p := filepath.Join(root, filepath.FromSlash(rel))
	inside, err := filepath.Rel(root, p)
	if err != nil || inside == "." || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInvalidInput, "path %q escapes %s", rel, root).
			WithDetail("path", rel).
			WithDetail("root", root)
	}
	return p, nil
}

func (e *Executor) pruneEmptyParents(root, dir string) {
	for dir != root && len(dir) > len(root) {
		empty, err := afero.IsEmpty(e.fs, dir)
		if err != nil || !empty {
			return
		}
		if err := e.fs.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
