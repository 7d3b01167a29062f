// Package executor applies placement plans to a profile directory.
//
// It is the reference implementation of the filesystem side of an
// install: files are copied from an extracted package, user-editable
// destinations that already exist are left untouched, and only tracked
// files are removed on uninstall. Writes to the same profile root are
// serialized; different profiles proceed independently.
package executor
