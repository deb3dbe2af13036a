// Package ui renders command lifecycle events and batch progress in a
// human-readable form when console logging is requested.
package ui
