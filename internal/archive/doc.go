// Package archive bundles screenshot folders into zip archives.
//
// Screenshots are laid out as <root>/<site>/<YYYY-MM-DD>/<files>. The
// archiver selects date folders either for a single day or for a
// rolling window, and preserves the site/date hierarchy in the archive
// entry names.
package archive
