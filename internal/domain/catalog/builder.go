package catalog

import (
	"io/fs"
	"iter"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/manifest"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/shared/paths"
)

// Filters controls which discovered records enter the catalog.
type Filters struct {
	// Blocklist entries match the manifest filename or the resolved
	// display name. Entries may be glob patterns ("org.kde.*").
	Blocklist []string

	SkipCategories   []string
	TargetCategories []string
	SkipKeywords     []string
	TargetKeywords   []string

	RequireIcon       bool
	RequireCategories bool

	// ExtraLangs limits locale-tagged display-name variants.
	ExtraLangs []string
}

// Builder walks the platform manifest search paths and yields filtered,
// deduplicated application records.
type Builder struct {
	dirs    []string
	suffix  string
	filters Filters
	logger  *logging.Logger
}

// New creates a builder over the given search paths, highest priority
// first. goos selects the manifest format.
func New(dirs []string, goos string, filters Filters, logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Builder{
		dirs:    dirs,
		suffix:  paths.ManifestSuffix(goos),
		filters: filters,
		logger:  logger,
	}
}

// Records returns a lazy, finite, non-restartable sequence of records.
// Every element is freshly parsed from disk at yield time. An application
// already yielded under a normalized identity is not yielded again from a
// later search path.
func (b *Builder) Records() iter.Seq[manifest.Record] {
	return func(yield func(manifest.Record) bool) {
		seen := make(map[string]struct{})
		for _, dir := range b.dirs {
			for _, path := range b.listManifests(dir) {
				if base := filepath.Base(path); b.blocked(base) || b.blocked(trimSuffixes(base)) {
					b.logger.Debug("Manifest blocklisted", zap.String("path", path))
					continue
				}

				record, ok := b.parse(path)
				if !ok {
					// missing exec command or unparseable manifest
					b.logger.Debug("Manifest skipped", zap.String("path", path))
					continue
				}
				if !b.accept(record) {
					continue
				}

				if _, dup := seen[record.ID]; dup {
					b.logger.Debug("Duplicate application",
						zap.String("id", record.ID),
						zap.String("path", path),
					)
					continue
				}
				seen[record.ID] = struct{}{}

				if !yield(record) {
					return
				}
			}
		}
	}
}

func (b *Builder) parse(path string) (manifest.Record, bool) {
	if b.suffix == paths.BundleSuffix {
		return manifest.ParseBundle(path)
	}
	return manifest.ParseDesktop(path, b.filters.ExtraLangs)
}

// listManifests returns manifest paths under dir in lexicographic order.
// Alias precedence depends on processing order, so intra-tier ordering must
// not vary with filesystem iteration order.
func (b *Builder) listManifests(dir string) []string {
	var found []string

	if b.suffix == paths.BundleSuffix {
		// bundles are directories; only the top level of each search path
		// holds them
		matches, err := filepath.Glob(filepath.Join(dir, "*"+paths.BundleSuffix))
		if err == nil {
			found = matches
		}
		sort.Strings(found)
		return found
	}

	// desktop files may sit in subdirectories (Wine, Flatpak exports)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			b.logger.Debug("Discovery error", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(path, paths.DesktopSuffix) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		b.logger.Debug("Inaccessible search path", zap.String("dir", dir), zap.Error(err))
	}
	sort.Strings(found)
	return found
}

// accept applies the filter chain in its fixed order. The missing-command
// filter runs inside the parsers: a record without a launch command never
// materializes.
func (b *Builder) accept(r manifest.Record) bool {
	f := b.filters
	switch {
	case b.blockedAny(r.DisplayNames):
		b.logger.Debug("Application blocklisted", zap.String("id", r.ID))
	case !r.IsApplication:
		b.logger.Debug("Not an application", zap.String("id", r.ID))
	case f.RequireIcon && r.Icon == "":
		b.logger.Debug("No icon", zap.String("id", r.ID))
	case (f.RequireCategories || len(f.TargetCategories) > 0) && len(r.Categories) == 0:
		b.logger.Debug("No categories", zap.String("id", r.ID))
	case len(f.TargetCategories) > 0 && !intersects(r.Categories, f.TargetCategories):
		b.logger.Debug("Outside target categories", zap.String("id", r.ID))
	case len(f.TargetKeywords) > 0 && !intersects(r.Keywords, f.TargetKeywords):
		b.logger.Debug("Outside target keywords", zap.String("id", r.ID))
	case intersects(r.Categories, f.SkipCategories):
		b.logger.Debug("Skipped category", zap.String("id", r.ID))
	case intersects(r.Keywords, f.SkipKeywords):
		b.logger.Debug("Skipped keyword", zap.String("id", r.ID))
	default:
		return true
	}
	return false
}

func (b *Builder) blocked(name string) bool {
	for _, pattern := range b.filters.Blocklist {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
		if strings.EqualFold(pattern, name) {
			return true
		}
	}
	return false
}

func (b *Builder) blockedAny(names []string) bool {
	for _, name := range names {
		if b.blocked(name) {
			return true
		}
	}
	return false
}

// trimSuffixes strips the manifest suffix so blocklist entries match both
// "firefox" and "firefox.desktop".
func trimSuffixes(name string) string {
	name = strings.TrimSuffix(name, paths.DesktopSuffix)
	return strings.TrimSuffix(name, paths.BundleSuffix)
}

func intersects(values, against []string) bool {
	for _, v := range values {
		for _, a := range against {
			if strings.EqualFold(v, a) {
				return true
			}
		}
	}
	return false
}
