// Package manifest parses platform-native application descriptors into
// normalized records.
//
// Two formats are supported: freedesktop .desktop text entries (Linux) and
// .app bundle property lists (macOS). Both parsers tolerate malformed
// input: an unreadable or invalid manifest yields an empty result rather
// than an error, and a bundle with a corrupt Info.plist still produces a
// minimal record from its directory name.
package manifest
