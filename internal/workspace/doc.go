// Package workspace prepares local checkouts for batch mutations.
//
// Builder clones a fork shallowly, probes for an existing feature branch, and
// otherwise creates a fresh branch synchronized with the upstream default
// branch. The resulting Workspace exposes the directory plus staging helpers
// for mutation callbacks.
package workspace
