package alias

import (
	"crypto/sha256"
	"encoding/hex"
	"iter"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/manifest"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
)

// Alias keys shorter or longer than these bounds are command-matching
// noise and never enter the index.
const (
	MinAliasLen = 3
	MaxAliasLen = 20
)

// RecordSource yields the application records the index is derived from.
// *catalog.Builder satisfies this.
type RecordSource interface {
	Records() iter.Seq[manifest.Record]
}

// Options holds the user configuration merged into the index.
type Options struct {
	// UserAliases maps a discovered name to speech-friendly synonyms.
	UserAliases map[string][]string

	// UserCommands maps explicit names to commands. Highest precedence:
	// they override discovered aliases on key collision.
	UserCommands map[string]string
}

// Index is the lazily built alias -> launch command mapping.
//
// The mapping is built wholesale and swapped in under the lock; it is never
// partially mutated, so readers of a returned snapshot need no
// synchronization.
type Index struct {
	mu     sync.RWMutex
	cache  map[string]string
	valid  bool
	source RecordSource
	opts   Options
	logger *logging.Logger
}

// New creates an index over the record source. Nothing is built until the
// first Aliases call.
func New(source RecordSource, opts Options, logger *logging.Logger) *Index {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Index{source: source, opts: opts, logger: logger}
}

// Aliases returns the current alias mapping, building it on first access or
// after invalidation. The returned map is a shared snapshot; callers must
// treat it as read-only.
func (i *Index) Aliases() map[string]string {
	i.mu.RLock()
	if i.valid {
		cache := i.cache
		i.mu.RUnlock()
		return cache
	}
	i.mu.RUnlock()

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.valid {
		return i.cache
	}
	i.cache = i.build()
	i.valid = true
	i.logger.Info("Alias index built", zap.Int("aliases", len(i.cache)))
	return i.cache
}

// Invalidate marks the index stale and drops its contents. The next
// Aliases call rebuilds from disk.
func (i *Index) Invalidate() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cache = nil
	i.valid = false
}

// IsValid reports whether a built mapping is available. False means "never
// built or invalidated", not "no applications found".
func (i *Index) IsValid() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.valid
}

// Len returns the number of aliases, building the index if needed.
func (i *Index) Len() int {
	return len(i.Aliases())
}

// Fingerprint returns a deterministic hash of the sorted alias->command
// pairs. Identical filesystems produce identical fingerprints.
func (i *Index) Fingerprint() string {
	aliases := i.Aliases()
	keys := make([]string, 0, len(aliases))
	for key := range aliases {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, key := range keys {
		h.Write([]byte(key))
		h.Write([]byte{0})
		h.Write([]byte(aliases[key]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

func (i *Index) build() map[string]string {
	aliases := make(map[string]string)

	// lowercased lookup for user alias keys; configuration casing should
	// not have to match manifest casing
	userAliases := make(map[string][]string, len(i.opts.UserAliases))
	for key, synonyms := range i.opts.UserAliases {
		userAliases[strings.ToLower(key)] = synonyms
	}

	for record := range i.source.Records() {
		for _, candidate := range candidates(record) {
			if !withinBounds(candidate) {
				continue
			}
			aliases[candidate] = record.Exec

			for _, synonym := range userAliases[strings.ToLower(candidate)] {
				if withinBounds(synonym) {
					aliases[synonym] = record.Exec
				}
			}

			// KDE branding quirk: K where the word wants a C. Install the
			// C spelling too, without clobbering a real entry.
			if strings.HasPrefix(candidate, "K") && brandedNaming(record) {
				substituted := "C" + candidate[1:]
				if _, exists := aliases[substituted]; !exists {
					aliases[substituted] = record.Exec
				}
			}
		}
	}

	// explicit configuration wins over anything discovered
	for name, command := range i.opts.UserCommands {
		if withinBounds(name) && command != "" {
			aliases[name] = command
		}
	}

	return aliases
}

// candidates returns the alias candidates for a record: the executable
// basename, every display name, and a normalized variant of each.
func candidates(record manifest.Record) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	add(record.ExecBase)
	add(Normalize(record.ExecBase))
	for _, name := range record.DisplayNames {
		add(name)
		add(Normalize(name))
	}
	return out
}

var titleCaser = cases.Title(language.Und)

// Normalize converts a raw manifest name into a speech-friendly alias:
// file extension stripped, reverse-DNS prefixes dropped, separators turned
// into spaces, title-cased. "org.kde.kcalc.desktop" becomes "Kcalc".
func Normalize(name string) string {
	name = strings.TrimSuffix(name, ".desktop")
	name = strings.TrimSuffix(name, ".app")
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		name = name[dot+1:]
	}
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(titleCaser.String(name))
}

func withinBounds(alias string) bool {
	return len(alias) >= MinAliasLen && len(alias) <= MaxAliasLen
}

// brandedNaming reports whether the record belongs to a desktop environment
// known for the K naming convention.
func brandedNaming(record manifest.Record) bool {
	return record.HasCategory("KDE") || record.HasCategory("Qt")
}
