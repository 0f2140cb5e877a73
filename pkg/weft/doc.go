// Package weft is the core of a retained-mode component framework for
// terminal applications. Controls accumulate invalidation flags as their
// state changes; a [Scheduler] batches the resulting validation work into
// discrete passes on a single UI goroutine, so any number of mutations
// between passes costs one recomputation.
//
// The package deliberately knows nothing about data sources or item
// renderers — see pkg/collections and pkg/controls for those.
package weft
