// Package i18n serves the UI label catalogs. Catalogs are YAML files
// embedded at build time; lookups fall back to English and finally to the
// key itself, so a missing translation never breaks a render.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/equitylab/equity-navigator/pkg/errors"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLanguage is the fallback catalog.
const DefaultLanguage = "en"

// Bundle holds all loaded catalogs.
type Bundle struct {
	catalogs map[string]map[string]string
}

// NewBundle parses every embedded catalog.
func NewBundle() (*Bundle, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to list locale catalogs", err)
	}

	bundle := &Bundle{
		catalogs: make(map[string]map[string]string, len(entries)),
	}

	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), ".yaml")

		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeConfigInvalid, err, "failed to read catalog %s", entry.Name())
		}

		catalog := make(map[string]string)
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeConfigInvalid, err, "failed to parse catalog %s", entry.Name())
		}

		bundle.catalogs[lang] = catalog
	}

	if _, ok := bundle.catalogs[DefaultLanguage]; !ok {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "default language catalog is missing")
	}

	return bundle, nil
}

// Languages returns the available catalog languages, sorted.
func (b *Bundle) Languages() []string {
	languages := make([]string, 0, len(b.catalogs))
	for lang := range b.catalogs {
		languages = append(languages, lang)
	}

	sort.Strings(languages)

	return languages
}

// Has reports whether a catalog exists for the language.
func (b *Bundle) Has(lang string) bool {
	_, ok := b.catalogs[lang]

	return ok
}

// T looks up the key in the language's catalog, falling back to English and
// then to the key itself.
func (b *Bundle) T(lang, key string) string {
	if catalog, ok := b.catalogs[lang]; ok {
		if label, ok := catalog[key]; ok {
			return label
		}
	}

	if label, ok := b.catalogs[DefaultLanguage][key]; ok {
		return label
	}

	return key
}

// Tf looks up the key and substitutes {name} placeholders from the given
// pairs.
// example: Tf("en", "fetch_failed", "ticker", "AAPL")
func (b *Bundle) Tf(lang, key string, pairs ...string) string {
	label := b.T(lang, key)

	for i := 0; i+1 < len(pairs); i += 2 {
		label = strings.ReplaceAll(label, fmt.Sprintf("{%s}", pairs[i]), pairs[i+1])
	}

	return label
}
