// Package types defines the data model shared by loaders, placers and
// executors: placement rules, package listings and placement plans.
//
// Everything here is plain data. Paths are slash separated and relative;
// converting them to OS paths is left to whoever touches the filesystem.
package types
