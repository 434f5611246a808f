package manifest

import (
	"path/filepath"
	"strings"
)

// Record is the normalized, in-memory representation of one discovered
// application. Records are immutable after construction and discarded
// wholesale on catalog rebuild.
type Record struct {
	// ID is the stable key: the lowercased canonical name.
	ID string

	// DisplayNames is the ordered set of name variants (canonical, generic,
	// comment, locale variants). Insertion order is discovery order;
	// duplicates are removed case-sensitively.
	DisplayNames []string

	// Exec is the raw launch command, not yet shell-tokenized. On macOS it
	// is the bundle path, launched via open(1).
	Exec string

	// ExecBase is Exec's leading token stripped of path and extension,
	// used for process matching. For bundles it prefers CFBundleExecutable.
	ExecBase string

	// Icon is the icon name or path from the manifest; empty when absent.
	Icon string

	Categories []string
	Keywords   []string

	// IsApplication reports whether the manifest's type classification
	// denotes a launchable application (not a directory, link, or other
	// descriptor type).
	IsApplication bool

	// BundleID and Version are bundle metadata; empty for desktop entries.
	BundleID string
	Version  string

	// SourcePath is the manifest this record came from. Diagnostics only.
	SourcePath string
}

// Name returns the canonical display name, or "" for an empty record.
func (r Record) Name() string {
	if len(r.DisplayNames) == 0 {
		return ""
	}
	return r.DisplayNames[0]
}

// HasCategory reports whether the record carries the category,
// case-insensitively.
func (r Record) HasCategory(category string) bool {
	for _, c := range r.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// addName appends a display name, skipping empties and exact duplicates.
// Case-insensitive collisions are kept; they collapse later in the alias
// index.
func (r *Record) addName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for _, existing := range r.DisplayNames {
		if existing == name {
			return
		}
	}
	r.DisplayNames = append(r.DisplayNames, name)
}

// finalize derives ID and ExecBase once all fields are set. Returns false
// when the record has no launch command or no name.
func (r *Record) finalize() bool {
	if r.Exec == "" || len(r.DisplayNames) == 0 {
		return false
	}
	r.ID = strings.ToLower(r.DisplayNames[0])
	if r.ExecBase == "" {
		r.ExecBase = ExecBasename(r.Exec)
	}
	return true
}

// ExecBasename extracts the executable basename from a raw command string:
// the leading token, stripped of its directory and extension.
func ExecBasename(command string) string {
	head, _, _ := strings.Cut(strings.TrimSpace(command), " ")
	head = filepath.Base(head)
	if dot := strings.IndexByte(head, '.'); dot > 0 {
		head = head[:dot]
	}
	return head
}
