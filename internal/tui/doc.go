// Package tui is the interactive live-search view. It runs a search in the
// background, streams matches into a table as they are found and previews the
// selected file.
package tui
