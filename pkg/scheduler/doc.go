// Package scheduler decides, for every prop change, between a cheap attribute
// update and a debounced full rebuild.
//
// A [Fingerprint] summarizes the node set: the node count plus an FNV-1a hash
// of a bounded sample of ids (the first 50 in input order and the last one).
// When the fingerprint and the layout type match what was last built,
// [Scheduler.Submit] returns [Update] and the caller refreshes attributes in
// place. Otherwise a rebuild is scheduled after the debounce delay; a newer
// submission replaces the pending one, so only the latest props are built.
package scheduler
