// Package alias derives the searchable name -> launch command mapping from
// discovered application records.
//
// For every record the index installs the executable basename, each display
// name, and a normalized variant of each as aliases, bounded to 3-20
// characters. User-configured synonyms expand discovered names;
// user-defined commands override everything on key collision. The index is
// built lazily and invalidated wholesale when the manifest directories
// change.
package alias
