// Package controls provides the data-bound controls built on the weft
// invalidation scheduler: virtualized ListView and TreeView, the popup
// ComboBox, and the TabNavigator.
//
// All of them share one renderer pool mechanism: items get renderers only
// while visible, renderers are recycled across items as the view scrolls
// or the data mutates, and a [Recycler] customizes how renderers are
// created, updated, reset, and destroyed. Item bookkeeping is keyed by
// identity, so data sources must hold identity-comparable items
// (pointers, in practice) with no duplicates.
package controls
