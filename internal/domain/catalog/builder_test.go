package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/manifest"
)

func writeEntry(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func collect(b *Builder) []manifest.Record {
	var records []manifest.Record
	for record := range b.Records() {
		records = append(records, record)
	}
	return records
}

func TestBuilderDiscovers(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "firefox.desktop", `[Desktop Entry]
Name=Firefox
Exec=firefox %u
Type=Application
`)
	writeEntry(t, dir, "notes.txt", "not a manifest")

	records := collect(New([]string{dir}, "linux", Filters{}, nil))
	require.Len(t, records, 1)
	assert.Equal(t, "firefox", records[0].ID)
}

func TestBuilderRejectsMissingExec(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "broken.desktop", `[Desktop Entry]
Name=Broken
Type=Application
`)

	assert.Empty(t, collect(New([]string{dir}, "linux", Filters{}, nil)))
}

func TestBuilderRejectsNonApplication(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "link.desktop", `[Desktop Entry]
Name=Web Link
Type=Link
Exec=xdg-open https://example.org
`)

	assert.Empty(t, collect(New([]string{dir}, "linux", Filters{}, nil)))
}

func TestBuilderBlocklist(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "org.kde.kcalc.desktop", `[Desktop Entry]
Name=KCalc
Exec=kcalc
Type=Application
`)
	writeEntry(t, dir, "gimp.desktop", `[Desktop Entry]
Name=GIMP
Exec=gimp
Type=Application
`)

	tests := []struct {
		name      string
		blocklist []string
		wantIDs   []string
	}{
		{"by filename glob", []string{"org.kde.*"}, []string{"gimp"}},
		{"by display name", []string{"GIMP"}, []string{"kcalc"}},
		{"case insensitive", []string{"gimp"}, []string{"kcalc"}},
		{"no blocklist", nil, []string{"gimp", "kcalc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := collect(New([]string{dir}, "linux", Filters{Blocklist: tt.blocklist}, nil))
			var ids []string
			for _, r := range records {
				ids = append(ids, r.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestBuilderCategoryFilters(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "game.desktop", `[Desktop Entry]
Name=Chess
Exec=chess
Type=Application
Categories=Game;BoardGame;
`)
	writeEntry(t, dir, "editor.desktop", `[Desktop Entry]
Name=Editor
Exec=editor
Type=Application
Categories=Utility;TextEditor;
`)
	writeEntry(t, dir, "bare.desktop", `[Desktop Entry]
Name=Bare
Exec=bare
Type=Application
`)

	tests := []struct {
		name    string
		filters Filters
		wantIDs []string
	}{
		{"require categories", Filters{RequireCategories: true}, []string{"chess", "editor"}},
		{"target categories", Filters{TargetCategories: []string{"Game"}}, []string{"chess"}},
		{"skip categories", Filters{SkipCategories: []string{"Game"}}, []string{"editor", "bare"}},
		{"unfiltered", Filters{}, []string{"chess", "editor", "bare"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := collect(New([]string{dir}, "linux", tt.filters, nil))
			var ids []string
			for _, r := range records {
				ids = append(ids, r.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestBuilderKeywordFilters(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "browser.desktop", `[Desktop Entry]
Name=Browser
Exec=browser
Type=Application
Keywords=Internet;Web;
`)
	writeEntry(t, dir, "plain.desktop", `[Desktop Entry]
Name=Plain
Exec=plain
Type=Application
`)

	records := collect(New([]string{dir}, "linux", Filters{TargetKeywords: []string{"web"}}, nil))
	require.Len(t, records, 1)
	assert.Equal(t, "browser", records[0].ID)

	records = collect(New([]string{dir}, "linux", Filters{SkipKeywords: []string{"Internet"}}, nil))
	require.Len(t, records, 1)
	assert.Equal(t, "plain", records[0].ID)
}

func TestBuilderRequireIcon(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "iconless.desktop", `[Desktop Entry]
Name=Iconless
Exec=iconless
Type=Application
`)

	assert.Empty(t, collect(New([]string{dir}, "linux", Filters{RequireIcon: true}, nil)))
}

func TestBuilderDedupAcrossTiers(t *testing.T) {
	system := t.TempDir()
	user := t.TempDir()
	writeEntry(t, system, "firefox.desktop", `[Desktop Entry]
Name=Firefox
Exec=/usr/bin/firefox
Type=Application
`)
	writeEntry(t, user, "firefox.desktop", `[Desktop Entry]
Name=Firefox
Exec=/home/user/firefox-nightly/firefox
Type=Application
`)

	records := collect(New([]string{system, user}, "linux", Filters{}, nil))
	require.Len(t, records, 1)
	// first occurrence wins: the higher priority tier's command survives
	assert.Equal(t, "/usr/bin/firefox", records[0].Exec)
}

func TestBuilderRecursesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, filepath.Join(dir, "wine", "Programs"), "notepad.desktop", `[Desktop Entry]
Name=Notepad
Exec=wine notepad.exe
Type=Application
`)

	records := collect(New([]string{dir}, "linux", Filters{}, nil))
	require.Len(t, records, 1)
	assert.Equal(t, "notepad", records[0].ID)
}

func TestBuilderSkipsMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	assert.Empty(t, collect(New([]string{missing}, "linux", Filters{}, nil)))
}

func TestBuilderDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zzz", "aaa", "mmm"} {
		writeEntry(t, dir, name+".desktop", `[Desktop Entry]
Name=`+name+`
Exec=`+name+`
Type=Application
`)
	}

	first := collect(New([]string{dir}, "linux", Filters{}, nil))
	second := collect(New([]string{dir}, "linux", Filters{}, nil))
	require.Equal(t, first, second)
	assert.Equal(t, "aaa", first[0].ID)
	assert.Equal(t, "zzz", first[2].ID)
}

func TestBuilderBundles(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "Safari.app")
	require.NoError(t, os.MkdirAll(filepath.Join(bundle, "Contents"), 0o755))

	records := collect(New([]string{dir}, "darwin", Filters{}, nil))
	require.Len(t, records, 1)
	assert.Equal(t, "safari", records[0].ID)
	assert.Equal(t, bundle, records[0].Exec)
}
