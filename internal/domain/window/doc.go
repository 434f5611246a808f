// Package window provides platform window enumeration, activation, and
// graceful close.
//
// Linux uses wmctrl, macOS uses the osascript AppleScript bridge. Find
// keeps only the windows sharing the single best match score, so callers
// get "the best-matching window(s)" rather than the first hit. When the
// tool is missing or disabled, every operation fails cleanly and callers
// fall back to process-level control.
package window
