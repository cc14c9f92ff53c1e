// Package i18n resolves localization keys to display strings. Lookup order
// is the active language, then the default language, then the raw key in
// brackets so missing entries are visible instead of silent.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"corsair/internal/debug"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const DefaultLanguage = "en"

type Localizer struct {
	lang   string
	tables map[string]map[string]string
	log    *debug.Logger
}

// New loads every embedded locale table and activates the given language.
// An unknown language falls back to the default with a warning rather than
// failing startup.
func New(lang string, log *debug.Logger) (*Localizer, error) {
	tables, err := loadTables()
	if err != nil {
		return nil, err
	}
	l := &Localizer{lang: lang, tables: tables, log: log}
	if _, ok := tables[lang]; !ok {
		log.Warnf("no locale table for %q, falling back to %q", lang, DefaultLanguage)
		l.lang = DefaultLanguage
	}
	return l, nil
}

func loadTables() (map[string]map[string]string, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to list locale tables: %w", err)
	}
	tables := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		raw, err := localeFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", name, err)
		}
		var table map[string]string
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", name, err)
		}
		tables[strings.TrimSuffix(name, ".yaml")] = table
	}
	return tables, nil
}

func (l *Localizer) Language() string { return l.lang }

// Get resolves a key, substituting {name} placeholders from vars.
func (l *Localizer) Get(key string, vars map[string]string) string {
	text, ok := l.tables[l.lang][key]
	if !ok {
		text, ok = l.tables[DefaultLanguage][key]
	}
	if !ok {
		l.log.Warnf("missing localization key %q", key)
		return "[" + key + "]"
	}
	for name, value := range vars {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}
