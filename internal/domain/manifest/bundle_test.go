package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

func writeBundle(t *testing.T, name string, info map[string]interface{}, format int) string {
	t.Helper()
	bundle := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(filepath.Join(bundle, "Contents"), 0o755))
	if info != nil {
		data, err := plist.Marshal(info, format)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(bundle, "Contents", "Info.plist"), data, 0o644))
	}
	return bundle
}

func TestParseBundle(t *testing.T) {
	bundle := writeBundle(t, "Safari.app", map[string]interface{}{
		"CFBundleName":               "Safari",
		"CFBundleDisplayName":        "Safari Browser",
		"CFBundleIdentifier":         "com.apple.Safari",
		"CFBundleShortVersionString": "17.1",
		"CFBundleExecutable":         "Safari",
		"CFBundleIconFile":           "AppIcon.icns",
		"CFBundlePackageType":        "APPL",
		"LSApplicationCategoryType":  "public.app-category.productivity",
	}, plist.XMLFormat)

	record, ok := ParseBundle(bundle)
	require.True(t, ok)
	assert.Equal(t, "safari", record.ID)
	assert.Equal(t, []string{"Safari", "Safari Browser"}, record.DisplayNames)
	assert.Equal(t, bundle, record.Exec)
	assert.Equal(t, "Safari", record.ExecBase)
	assert.Equal(t, "com.apple.Safari", record.BundleID)
	assert.Equal(t, "17.1", record.Version)
	assert.Equal(t, "AppIcon.icns", record.Icon)
	assert.Equal(t, []string{"productivity"}, record.Categories)
	assert.True(t, record.IsApplication)
}

func TestParseBundleBinaryPlist(t *testing.T) {
	bundle := writeBundle(t, "Calculator.app", map[string]interface{}{
		"CFBundleName":       "Calculator",
		"CFBundleExecutable": "Calculator",
	}, plist.BinaryFormat)

	record, ok := ParseBundle(bundle)
	require.True(t, ok)
	assert.Equal(t, "Calculator", record.Name())
}

func TestParseBundleMissingPlist(t *testing.T) {
	bundle := writeBundle(t, "Bare.app", nil, 0)

	record, ok := ParseBundle(bundle)
	require.True(t, ok)
	assert.Equal(t, "Bare", record.Name())
	assert.Equal(t, bundle, record.Exec)
	assert.Equal(t, "Bare", record.ExecBase)
	assert.True(t, record.IsApplication)
}

func TestParseBundleCorruptPlist(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "Broken.app")
	require.NoError(t, os.MkdirAll(filepath.Join(bundle, "Contents"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bundle, "Contents", "Info.plist"), []byte("not a plist"), 0o644))

	record, ok := ParseBundle(bundle)
	require.True(t, ok)
	assert.Equal(t, "Broken", record.Name())
}

func TestParseBundleNonApplicationPackage(t *testing.T) {
	bundle := writeBundle(t, "Helper.app", map[string]interface{}{
		"CFBundleName":        "Helper",
		"CFBundlePackageType": "FMWK",
	}, plist.XMLFormat)

	record, ok := ParseBundle(bundle)
	require.True(t, ok)
	assert.False(t, record.IsApplication)
}

func TestParseBundleNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "File.app")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, ok := ParseBundle(path)
	assert.False(t, ok)

	_, ok = ParseBundle(filepath.Join(t.TempDir(), "plain-dir"))
	assert.False(t, ok)
}
