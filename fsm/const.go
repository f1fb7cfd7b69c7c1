// Package fsm builds the two-tier transition state machine described in
// spec §4.4-§4.6: a TransitionCollector counts edges between consecutive
// encoded tags, then a Builder lays out per-tag private lists and a
// shared public list as balanced, NoOp-interposed blocks so that most
// transitions are encodable as a single byte offset from a state's base.
package fsm

// Invalid is the sentinel "no such position" value, matching kInvalidPos
// in the source this package is grounded on: the maximum uint32, chosen
// so ordinary unsigned comparisons (base > pos) behave correctly without
// a separate "is set" check.
const Invalid = ^uint32(0)

// MaxTransition is the largest single-byte transition offset. Transition
// bytes encode values in [0, MaxTransition].
const MaxTransition = 63

// MinCountForState is the default threshold: a (source, destination)
// edge with at least this many occurrences is "hot" enough to earn a
// slot in the source's private list instead of routing through the
// shared public list.
const MinCountForState = 10
