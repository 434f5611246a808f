// Package paths provides the platform-native application manifest locations
// and the daemon's own config directory.
//
// Manifest search paths are ordered by priority: entries discovered in an
// earlier directory shadow same-named entries in later ones.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Manifest file suffixes per platform.
const (
	DesktopSuffix = ".desktop"
	BundleSuffix  = ".app"
)

// linuxManifestDirs lists freedesktop application directories, system first.
func linuxManifestDirs() []string {
	return []string{
		"/usr/share/applications",
		"/usr/local/share/applications",
		expand("~/.local/share/applications"),
	}
}

// darwinManifestDirs lists macOS bundle directories, system first.
func darwinManifestDirs() []string {
	return []string{
		"/Applications",
		"/System/Applications",
		"/Applications/Utilities",
		"/System/Library/CoreServices",
		"/System/Applications/Utilities",
		expand("~/Applications"),
	}
}

// ManifestDirs returns the manifest search paths for the current platform,
// highest priority first.
func ManifestDirs() []string {
	return ManifestDirsFor(runtime.GOOS)
}

// ManifestDirsFor returns the manifest search paths for the given GOOS.
// Unknown platforms get the freedesktop layout.
func ManifestDirsFor(goos string) []string {
	if goos == "darwin" {
		return darwinManifestDirs()
	}
	return linuxManifestDirs()
}

// ManifestSuffix returns the manifest file suffix for the given GOOS.
func ManifestSuffix(goos string) string {
	if goos == "darwin" {
		return BundleSuffix
	}
	return DesktopSuffix
}

// ConfigDir returns the daemon's configuration directory.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "launcherd")
	}
	return expand("~/.config/launcherd")
}

// SettingsCandidates returns settings file paths in probe order.
func SettingsCandidates() []string {
	dir := ConfigDir()
	return []string{
		filepath.Join(dir, "settings.yaml"),
		filepath.Join(dir, "settings.yml"),
		filepath.Join(dir, "settings.toml"),
		filepath.Join(dir, "settings.json"),
	}
}

func expand(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
