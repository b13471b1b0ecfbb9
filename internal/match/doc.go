// Package match decides whether a file name or a file's text content matches
// a search pattern. A Matcher is compiled once and is safe for concurrent use.
package match
