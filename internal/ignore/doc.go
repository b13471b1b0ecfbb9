// Package ignore reads gitignore-style pattern files. Blank lines and lines
// starting with '#' are skipped, a trailing '/' restricts a pattern to
// directories, a leading '!' re-includes, and patterns containing a '/' are
// anchored to the directory holding the file.
package ignore
