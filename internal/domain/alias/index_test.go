package alias

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/manifest"
)

// sliceSource yields fixed records; the counter tracks rebuilds.
type sliceSource struct {
	records []manifest.Record
	builds  int
}

func (s *sliceSource) Records() iter.Seq[manifest.Record] {
	s.builds++
	return func(yield func(manifest.Record) bool) {
		for _, r := range s.records {
			if !yield(r) {
				return
			}
		}
	}
}

func record(name, exec string, categories ...string) manifest.Record {
	return manifest.Record{
		ID:            name,
		DisplayNames:  []string{name},
		Exec:          exec,
		ExecBase:      manifest.ExecBasename(exec),
		Categories:    categories,
		IsApplication: true,
	}
}

func TestIndexInstallsNamesAndBasenames(t *testing.T) {
	source := &sliceSource{records: []manifest.Record{
		record("Firefox", "/usr/lib/firefox/firefox %u"),
	}}
	idx := New(source, Options{}, nil)

	aliases := idx.Aliases()
	assert.Equal(t, "/usr/lib/firefox/firefox %u", aliases["Firefox"])
	assert.Equal(t, "/usr/lib/firefox/firefox %u", aliases["firefox"])
}

func TestIndexLengthBounds(t *testing.T) {
	source := &sliceSource{records: []manifest.Record{
		record("Go", "go"),
		record("A Very Long Application Name Indeed", "longapp"),
	}}
	idx := New(source, Options{}, nil)

	for key := range idx.Aliases() {
		assert.GreaterOrEqual(t, len(key), MinAliasLen, key)
		assert.LessOrEqual(t, len(key), MaxAliasLen, key)
	}
}

func TestIndexUserAliases(t *testing.T) {
	source := &sliceSource{records: []manifest.Record{
		record("kcalc", "kcalc"),
	}}
	idx := New(source, Options{
		UserAliases: map[string][]string{"kcalc": {"calculator"}},
	}, nil)

	aliases := idx.Aliases()
	assert.Equal(t, "kcalc", aliases["calculator"])
}

func TestIndexUserAliasKeyCaseInsensitive(t *testing.T) {
	source := &sliceSource{records: []manifest.Record{
		record("KCalc", "kcalc"),
	}}
	idx := New(source, Options{
		UserAliases: map[string][]string{"kcalc": {"calculator"}},
	}, nil)

	assert.Equal(t, "kcalc", idx.Aliases()["calculator"])
}

func TestIndexUserCommandsWin(t *testing.T) {
	source := &sliceSource{records: []manifest.Record{
		record("Editor", "discovered-editor"),
	}}
	idx := New(source, Options{
		UserCommands: map[string]string{"Editor": "my-editor --fast"},
	}, nil)

	assert.Equal(t, "my-editor --fast", idx.Aliases()["Editor"])
}

func TestIndexBrandingQuirk(t *testing.T) {
	source := &sliceSource{records: []manifest.Record{
		record("Konsole", "konsole", "KDE"),
	}}
	idx := New(source, Options{}, nil)

	aliases := idx.Aliases()
	assert.Equal(t, "konsole", aliases["Konsole"])
	assert.Equal(t, "konsole", aliases["Console"])
}

func TestIndexBrandingQuirkNeedsClassification(t *testing.T) {
	// a K name outside the KDE/Qt world gets no substituted alias
	source := &sliceSource{records: []manifest.Record{
		record("Krita Fork", "kfork"),
	}}
	idx := New(source, Options{}, nil)

	_, exists := idx.Aliases()["Crita Fork"]
	assert.False(t, exists)
}

func TestIndexBrandingQuirkNeverOverwrites(t *testing.T) {
	source := &sliceSource{records: []manifest.Record{
		record("Console", "real-console"),
		record("Konsole", "konsole", "KDE"),
	}}
	idx := New(source, Options{}, nil)

	assert.Equal(t, "real-console", idx.Aliases()["Console"])
}

func TestIndexLazyBuildAndInvalidate(t *testing.T) {
	source := &sliceSource{records: []manifest.Record{record("Firefox", "firefox")}}
	idx := New(source, Options{}, nil)

	assert.False(t, idx.IsValid())
	assert.Zero(t, source.builds)

	idx.Aliases()
	assert.True(t, idx.IsValid())
	assert.Equal(t, 1, source.builds)

	// repeated access hits the cache
	idx.Aliases()
	assert.Equal(t, 1, source.builds)

	idx.Invalidate()
	assert.False(t, idx.IsValid())
	idx.Aliases()
	assert.Equal(t, 2, source.builds)
}

func TestIndexRebuildIdempotent(t *testing.T) {
	source := &sliceSource{records: []manifest.Record{
		record("Firefox", "firefox"),
		record("Konsole", "konsole", "KDE"),
	}}
	idx := New(source, Options{UserAliases: map[string][]string{"Firefox": {"browser"}}}, nil)

	first := idx.Aliases()
	fingerprint := idx.Fingerprint()

	idx.Invalidate()
	second := idx.Aliases()

	require.Equal(t, first, second)
	assert.Equal(t, fingerprint, idx.Fingerprint())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"org.kde.kcalc.desktop", "Kcalc"},
		{"font-viewer", "Font Viewer"},
		{"my_app", "My App"},
		{"Safari.app", "Safari"},
		{"GIMP", "Gimp"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}
