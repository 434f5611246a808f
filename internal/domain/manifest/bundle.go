package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"
)

// bundleInfo captures the Info.plist keys the launcher cares about.
type bundleInfo struct {
	Name        string `plist:"CFBundleName"`
	DisplayName string `plist:"CFBundleDisplayName"`
	Identifier  string `plist:"CFBundleIdentifier"`
	Version     string `plist:"CFBundleShortVersionString"`
	Executable  string `plist:"CFBundleExecutable"`
	IconFile    string `plist:"CFBundleIconFile"`
	PackageType string `plist:"CFBundlePackageType"`
	Category    string `plist:"LSApplicationCategoryType"`
}

// ParseBundle reads one macOS .app bundle directory into a Record.
//
// The bundle's Contents/Info.plist may be XML or binary. A missing or
// corrupt plist does not discard the bundle: the directory name alone is
// enough to launch it via open(1), so a minimal record is derived from it.
// Non-directories and paths without the .app suffix yield ok=false.
func ParseBundle(path string) (Record, bool) {
	if !strings.HasSuffix(path, ".app") {
		return Record{}, false
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return Record{}, false
	}

	record := Record{
		Exec:          path,
		IsApplication: true,
		SourcePath:    path,
	}
	dirName := strings.TrimSuffix(filepath.Base(path), ".app")

	data, err := os.ReadFile(filepath.Join(path, "Contents", "Info.plist"))
	if err != nil {
		return minimalBundle(record, dirName)
	}
	var info bundleInfo
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return minimalBundle(record, dirName)
	}

	canonical := info.Name
	if canonical == "" {
		canonical = info.DisplayName
	}
	if canonical == "" {
		canonical = dirName
	}
	record.addName(canonical)
	record.addName(info.DisplayName)
	record.addName(info.Name)

	record.BundleID = info.Identifier
	record.Version = info.Version
	record.Icon = info.IconFile
	record.ExecBase = info.Executable
	if record.ExecBase == "" {
		record.ExecBase = dirName
	}
	// anything other than an application package (frameworks are FMWK,
	// bundles BNDL) is not launchable
	record.IsApplication = info.PackageType == "" || info.PackageType == "APPL"
	if info.Category != "" {
		record.Categories = []string{categoryTag(info.Category)}
	}

	if !record.finalize() {
		return Record{}, false
	}
	return record, true
}

// minimalBundle completes a record from the directory name alone.
func minimalBundle(record Record, dirName string) (Record, bool) {
	record.addName(dirName)
	record.ExecBase = dirName
	if !record.finalize() {
		return Record{}, false
	}
	return record, true
}

// categoryTag trims the "public.app-category." prefix from an
// LSApplicationCategoryType value, leaving the bare tag.
func categoryTag(value string) string {
	if idx := strings.LastIndexByte(value, '.'); idx >= 0 {
		return value[idx+1:]
	}
	return value
}
