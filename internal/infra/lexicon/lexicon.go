// Package lexicon loads and serves the per-locale lexical resources behind
// the suggestion tiers: collocation tables, intent phrase lists, board
// starters and the always-available fallback vocabulary.
//
// Defaults are embedded in the binary. An optional override directory can
// replace whole locales at runtime; a broken override never evicts a working
// set, but a broken embedded fallback list is fatal at startup because the
// engine's never-empty guarantee rests on it.
package lexicon

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// localeFile is the YAML shape of one locale resource file.
type localeFile struct {
	Locale       string              `yaml:"locale"`
	Categories   map[string]string   `yaml:"categories"`   // category -> display color
	Collocations map[string][]string `yaml:"collocations"` // word -> likely continuations
	Phrases      map[string][]string `yaml:"phrases"`      // intent category -> words
	Starters     []string            `yaml:"starters"`
	Fallback     []string            `yaml:"fallback"`
	Punctuation  []string            `yaml:"punctuation"`
	Images       map[string]string   `yaml:"images"` // word -> symbol image path
}

// Locale is one loaded locale. Immutable after load: reloads swap whole
// *Locale values, so a reader holding one keeps a consistent view.
type Locale struct {
	Code string

	collocations map[string][]string
	phrases      map[string][]string
	starters     []string
	fallback     []string
	punctuation  []string
	colors       map[string]string
	categoryOf   map[string]string
	images       map[string]string
}

// Continuations returns the likely next words after word, most likely first.
// Nil when the word has no collocation entry.
func (l *Locale) Continuations(word string) []string {
	return l.collocations[keyword(word)]
}

// PhraseWords returns the static vocabulary for one intent category.
func (l *Locale) PhraseWords(intent string) []string {
	return l.phrases[intent]
}

// Starters returns the sentence-opening words shown on an empty utterance.
func (l *Locale) Starters() []string {
	return l.starters
}

// FallbackWords returns the always-available core vocabulary.
func (l *Locale) FallbackWords() []string {
	return l.fallback
}

// Punctuation returns the sentence-closing marks for this locale.
func (l *Locale) Punctuation() []string {
	return l.punctuation
}

// CategoryOf returns the board category of a word, defaulting to "general".
func (l *Locale) CategoryOf(word string) string {
	if cat, ok := l.categoryOf[keyword(word)]; ok {
		return cat
	}
	return "general"
}

// ColorOf returns the display color for a category, empty when unstyled.
func (l *Locale) ColorOf(category string) string {
	return l.colors[category]
}

// ImageOf returns the symbol image path for a word, empty when the word has
// no pictogram.
func (l *Locale) ImageOf(word string) string {
	return l.images[keyword(word)]
}

// keyword normalizes a word for table lookups.
func keyword(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// build validates a parsed file and derives the lookup indexes.
func build(lf localeFile) (*Locale, error) {
	if lf.Locale == "" {
		return nil, fmt.Errorf("missing locale code")
	}
	if len(lf.Fallback) == 0 {
		return nil, fmt.Errorf("locale %s: fallback word list is empty", lf.Locale)
	}
	if len(lf.Punctuation) == 0 {
		return nil, fmt.Errorf("locale %s: punctuation list is empty", lf.Locale)
	}

	loc := &Locale{
		Code:         lf.Locale,
		collocations: make(map[string][]string, len(lf.Collocations)),
		phrases:      lf.Phrases,
		starters:     lf.Starters,
		fallback:     lf.Fallback,
		punctuation:  lf.Punctuation,
		colors:       lf.Categories,
		categoryOf:   make(map[string]string),
		images:       make(map[string]string, len(lf.Images)),
	}
	for w, next := range lf.Collocations {
		loc.collocations[keyword(w)] = next
	}
	for w, path := range lf.Images {
		loc.images[keyword(w)] = path
	}
	// A word's category is the intent list that carries it. "general" entries
	// stay unmapped so more specific categories win.
	for cat, words := range lf.Phrases {
		if cat == "general" {
			continue
		}
		for _, w := range words {
			loc.categoryOf[keyword(w)] = cat
		}
	}
	return loc, nil
}

// Library is the set of loaded locales with hot-reload support.
type Library struct {
	defaultLocale string
	overrideDir   string
	log           *zap.Logger

	mu      sync.RWMutex
	locales map[string]*Locale
}

// Load builds the library from the embedded defaults plus the optional
// override directory. Any invalid file is fatal here; after startup, only
// Reload tolerates bad overrides.
func Load(defaultLocale, overrideDir string, log *zap.Logger) (*Library, error) {
	locales, err := loadEmbedded()
	if err != nil {
		return nil, err
	}
	if overrideDir != "" {
		if err := applyDir(locales, overrideDir); err != nil {
			return nil, err
		}
	}
	if _, ok := locales[defaultLocale]; !ok {
		return nil, fmt.Errorf("lexicon: default locale %q not present", defaultLocale)
	}
	return &Library{
		defaultLocale: defaultLocale,
		overrideDir:   overrideDir,
		log:           log,
		locales:       locales,
	}, nil
}

// Locale returns the resources for code, falling back to the default locale
// for unknown or empty codes.
func (lib *Library) Locale(code string) *Locale {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	if l, ok := lib.locales[code]; ok {
		return l
	}
	return lib.locales[lib.defaultLocale]
}

// Has reports whether a locale is loaded under exactly this code.
func (lib *Library) Has(code string) bool {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	_, ok := lib.locales[code]
	return ok
}

// Reload re-reads the override directory on top of the embedded defaults and
// swaps the whole locale set in. On any error the previous set stays live.
func (lib *Library) Reload() error {
	locales, err := loadEmbedded()
	if err != nil {
		return err
	}
	if lib.overrideDir != "" {
		if err := applyDir(locales, lib.overrideDir); err != nil {
			return err
		}
	}
	if _, ok := locales[lib.defaultLocale]; !ok {
		return fmt.Errorf("lexicon: reload dropped default locale %q", lib.defaultLocale)
	}

	lib.mu.Lock()
	lib.locales = locales
	lib.mu.Unlock()

	lib.log.Info("lexicon reloaded", zap.Int("locales", len(locales)))
	return nil
}

// loadEmbedded parses every embedded locale file.
func loadEmbedded() (map[string]*Locale, error) {
	entries, err := embedded.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("lexicon: read embedded data: %w", err)
	}

	locales := make(map[string]*Locale, len(entries))
	for _, e := range entries {
		raw, readErr := embedded.ReadFile("data/" + e.Name())
		if readErr != nil {
			return nil, fmt.Errorf("lexicon: read %s: %w", e.Name(), readErr)
		}
		loc, parseErr := parse(raw)
		if parseErr != nil {
			return nil, fmt.Errorf("lexicon: %s: %w", e.Name(), parseErr)
		}
		locales[loc.Code] = loc
	}
	return locales, nil
}

// applyDir parses every *.yaml in dir, replacing same-code locales wholesale.
func applyDir(locales map[string]*Locale, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("lexicon: read override dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		raw, readErr := os.ReadFile(filepath.Join(dir, e.Name()))
		if readErr != nil {
			return fmt.Errorf("lexicon: read %s: %w", e.Name(), readErr)
		}
		loc, parseErr := parse(raw)
		if parseErr != nil {
			return fmt.Errorf("lexicon: %s: %w", e.Name(), parseErr)
		}
		locales[loc.Code] = loc
	}
	return nil
}

// parse unmarshals and validates one locale file.
func parse(raw []byte) (*Locale, error) {
	var lf localeFile
	if err := yaml.Unmarshal(raw, &lf); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return build(lf)
}
