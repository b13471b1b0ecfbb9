// Package filesearch provides the command-line interface. The root command
// runs a search; subcommands cover the interactive view, configuration files,
// shell completion and version reporting.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/filesearch/filesearch/cmd/filesearch"
//	func main() { filesearch.Execute() }
package filesearch
