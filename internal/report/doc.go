// Package report renders the outcome of a finished search as a plain-text
// summary or JSON.
package report
