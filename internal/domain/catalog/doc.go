// Package catalog discovers installed applications from platform manifest
// directories.
//
// The builder walks search paths in priority order, parses each manifest,
// and applies the configured filters: blocklist, application-type check,
// icon and category requirements, target and skip category/keyword sets.
// An application discovered in an earlier (higher priority) path shadows
// same-identity entries found later; within a path, manifests are processed
// in lexicographic order so rebuilds are deterministic.
package catalog
