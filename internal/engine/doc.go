// Package engine contains the core search logic for filesearch. It walks a
// directory tree depth-first, tests names or contents with the match package,
// appends hits to a result sink, and publishes match, progress and stop
// events to subscribed observers. This package is internal; external
// consumers should use the stable facade in pkg/core.
package engine
