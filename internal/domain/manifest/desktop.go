package manifest

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/language"
)

// desktopGroup is the only group of a desktop entry we read.
const desktopGroup = "[Desktop Entry]"

// ParseDesktop reads one freedesktop .desktop entry into a Record.
//
// Malformed or unreadable input yields ok=false, never an error: discovery
// must survive whatever the filesystem contains. Hidden=true entries are
// treated as nonexistent per freedesktop semantics. Locale-tagged name
// variants are kept only for the supplied extra languages.
func ParseDesktop(path string, extraLangs []string) (Record, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, false
	}
	data = decodeToUTF8(data)

	record := Record{
		IsApplication: true, // entries without an explicit Type still launch
		SourcePath:    path,
	}
	locales := newLocaleFilter(extraLangs)

	var (
		canonical string
		generics  []string
		comments  []string
		localized []string
		hidden    bool
		inEntry   bool
		sawGroup  bool
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == desktopGroup
			sawGroup = sawGroup || inEntry
			continue
		}
		if !inEntry {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		key, loc := splitLocaleKey(key)
		if loc != "" {
			if locales.match(loc) {
				switch key {
				case "Name", "GenericName", "Comment":
					localized = append(localized, value)
				}
			}
			continue
		}

		switch key {
		case "Name":
			if canonical == "" {
				canonical = value
			}
		case "GenericName":
			generics = append(generics, value)
		case "Comment":
			comments = append(comments, value)
		case "Exec":
			if record.Exec == "" {
				record.Exec = value
			}
		case "Icon":
			record.Icon = value
		case "Type":
			record.IsApplication = strings.Contains(strings.ToLower(value), "application")
		case "Categories":
			record.Categories = splitList(value)
		case "Keywords":
			record.Keywords = splitList(value)
		case "Hidden":
			hidden = strings.EqualFold(value, "true")
		}
	}

	if hidden || !sawGroup {
		return Record{}, false
	}

	if canonical == "" {
		canonical = nameFromFilename(path)
	}
	record.addName(canonical)
	for _, name := range generics {
		record.addName(name)
	}
	for _, name := range comments {
		record.addName(name)
	}
	for _, name := range localized {
		record.addName(name)
	}

	if !record.finalize() {
		return Record{}, false
	}
	return record, true
}

// decodeToUTF8 passes valid UTF-8 through and runs everything else through
// charset detection. Legacy pre-1.0 desktop files shipped in local 8-bit
// encodings.
func decodeToUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return data
	}
	reader, err := charset.NewReaderLabel(strings.ToLower(result.Charset), bytes.NewReader(data))
	if err != nil {
		return data
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return data
	}
	return decoded
}

// splitLocaleKey splits "Name[pt_BR]" into ("Name", "pt_BR").
func splitLocaleKey(key string) (string, string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:open], key[open+1 : len(key)-1]
}

// splitList splits a ;-delimited desktop entry list value.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ";") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// nameFromFilename derives a fallback name from the manifest filename:
// "org.kde.kcalc.desktop" becomes "kcalc".
func nameFromFilename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".desktop")
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		name = name[dot+1:]
	}
	return name
}

// localeFilter matches manifest locale tags against the configured extra
// languages using BCP-47 semantics, so "pt_BR" and "pt-BR" are the same tag.
type localeFilter struct {
	matcher language.Matcher
}

func newLocaleFilter(extraLangs []string) localeFilter {
	var tags []language.Tag
	for _, lang := range extraLangs {
		if tag, err := language.Parse(normalizeLangTag(lang)); err == nil {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return localeFilter{}
	}
	return localeFilter{matcher: language.NewMatcher(tags)}
}

func (f localeFilter) match(loc string) bool {
	if f.matcher == nil {
		return false
	}
	tag, err := language.Parse(normalizeLangTag(loc))
	if err != nil {
		return false
	}
	_, _, conf := f.matcher.Match(tag)
	return conf >= language.High
}

func normalizeLangTag(tag string) string {
	// desktop entries use POSIX locale syntax: strip encoding/modifier
	// suffixes and use hyphen separators
	if at := strings.IndexByte(tag, '@'); at >= 0 {
		tag = tag[:at]
	}
	if dot := strings.IndexByte(tag, '.'); dot >= 0 {
		tag = tag[:dot]
	}
	return strings.ReplaceAll(tag, "_", "-")
}
