// Package dictionary manages per-target-language term dictionaries used for
// direct substitution, prompt references, and learned-term ingestion.
package dictionary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"lingo-gate/internal/backend"
	"lingo-gate/internal/types"
	"lingo-gate/internal/utils"

	"github.com/sirupsen/logrus"
)

// PriorityCategories is the lookup order; earlier categories win.
var PriorityCategories = []string{"character_names", "place_names", "custom_terms", "ui", "general"}

const (
	// MaxDirectReplacementLength is the longest text the dictionary will
	// substitute directly. Anything longer that contains a space is only
	// ever used as reference material for the model.
	MaxDirectReplacementLength = 30

	// minTermLength excludes very short dictionary terms from partial
	// matching; two-character terms produce too many false hits.
	minTermLength = 2

	// defaultCategory receives learned terms the model did not categorize.
	defaultCategory = "custom_terms"

	// learnedConfidence is assigned to model-sourced terms.
	learnedConfidence = 0.9

	// minConfidence rejects low-confidence additions.
	minConfidence = 0.5
)

// Dictionary is a categorized term -> translation mapping for one language.
type Dictionary map[string]map[string]string

// Reference is a term/translation pair extracted for in-prompt guidance.
type Reference struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
}

// Service owns every per-language dictionary: lazy loading, in-memory
// caching, lookup, and synchronous persistence. Mutations for different
// languages never block each other; each language has its own lock.
type Service struct {
	basePath  string
	supported []string

	mu           sync.Mutex
	dictionaries map[string]Dictionary
	langLocks    map[string]*sync.Mutex
}

// NewService creates the dictionary service from configuration.
func NewService(configManager types.ConfigManager) *Service {
	return &Service{
		basePath:     configManager.GetStorageConfig().DictionariesPath,
		supported:    configManager.GetTranslationConfig().SupportedLanguages,
		dictionaries: make(map[string]Dictionary),
		langLocks:    make(map[string]*sync.Mutex),
	}
}

// Initialize creates the dictionary directory and preloads dictionaries for
// every supported language that already has one on disk. Call once at
// startup.
func (s *Service) Initialize() error {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create dictionaries directory: %w", err)
	}

	loaded := 0
	for _, lang := range s.supported {
		if _, err := os.Stat(s.filePath(lang)); err != nil {
			continue
		}
		if _, err := s.GetDictionary(lang); err != nil {
			logrus.WithError(err).Warnf("Failed to preload dictionary for %q", lang)
			continue
		}
		loaded++
	}

	logrus.Infof("Dictionary service initialized: %d of %d languages preloaded", loaded, len(s.supported))
	return nil
}

// langLock returns the mutex guarding one language's dictionary.
func (s *Service) langLock(lang string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.langLocks[lang]
	if !ok {
		lock = &sync.Mutex{}
		s.langLocks[lang] = lock
	}
	return lock
}

func (s *Service) filePath(lang string) string {
	return filepath.Join(s.basePath, lang+"_dictionary.json")
}

// GetDictionary returns the dictionary for a language, loading it from disk
// on first access. A missing file is replaced with an empty skeleton before
// the first read.
func (s *Service) GetDictionary(lang string) (Dictionary, error) {
	lock := s.langLock(lang)
	lock.Lock()
	defer lock.Unlock()

	return s.loadLocked(lang)
}

// loadLocked returns the cached dictionary or reads it from disk.
// Caller must hold the language lock.
func (s *Service) loadLocked(lang string) (Dictionary, error) {
	s.mu.Lock()
	dict, cached := s.dictionaries[lang]
	s.mu.Unlock()
	if cached {
		return dict, nil
	}

	path := s.filePath(lang)
	if _, err := os.Stat(path); err != nil {
		if err := s.writeFile(lang, emptySkeleton()); err != nil {
			return nil, fmt.Errorf("failed to create default dictionary: %w", err)
		}
		logrus.Infof("Created default dictionary file for %q", lang)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file: %w", err)
	}

	dict = make(Dictionary)
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary file %s: %w", path, err)
	}

	s.mu.Lock()
	s.dictionaries[lang] = dict
	s.mu.Unlock()

	total := 0
	for _, terms := range dict {
		total += len(terms)
	}
	logrus.Debugf("Dictionary loaded for %q: %d terms", lang, total)
	return dict, nil
}

func emptySkeleton() Dictionary {
	return Dictionary{
		"character_names": {},
		"place_names":     {},
		"custom_terms":    {},
		"ui":              {},
	}
}

// writeFile rewrites the whole per-language dictionary file. Last writer
// wins; per-language locking keeps writers for the same language serialized.
func (s *Service) writeFile(lang string, dict Dictionary) error {
	data, err := json.MarshalIndent(dict, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath(lang), data, 0644)
}

// GetTranslation finds a direct dictionary translation for the text.
// Short texts are substituted directly; texts longer than the direct
// replacement threshold that contain a space are reference-only and
// return no match. The second return is false when the dictionary has no
// safe answer and the model must translate.
func (s *Service) GetTranslation(text, targetLang string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return text, true
	}

	if utf8.RuneCountInString(text) > MaxDirectReplacementLength && strings.Contains(text, " ") {
		return "", false
	}

	lock := s.langLock(targetLang)
	lock.Lock()
	defer lock.Unlock()

	dict, err := s.loadLocked(targetLang)
	if err != nil || len(dict) == 0 {
		return "", false
	}

	// Exact match, case-sensitive then case-insensitive, in priority order.
	for _, category := range PriorityCategories {
		terms, ok := dict[category]
		if !ok {
			continue
		}
		if translation, ok := terms[text]; ok {
			return translation, true
		}
		for source, translation := range terms {
			if strings.EqualFold(source, text) {
				return translation, true
			}
		}
	}

	return s.substituteTerms(text, dict)
}

// substituteTerms performs whole-word, case-insensitive in-place replacement
// of every known term, then rejects the result if any original-language word
// survived untranslated. A half-translated string never leaves this function.
func (s *Service) substituteTerms(text string, dict Dictionary) (string, bool) {
	result := text
	replaced := false

	for _, category := range PriorityCategories {
		terms, ok := dict[category]
		if !ok {
			continue
		}
		for source, translation := range terms {
			if utf8.RuneCountInString(source) <= minTermLength {
				continue
			}
			pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(source) + `\b`)
			if err != nil {
				continue
			}
			if pattern.MatchString(result) {
				result = pattern.ReplaceAllString(result, translation)
				replaced = true
			}
		}
	}

	if !replaced {
		return "", false
	}

	resultWords := strings.Fields(result)
	for _, original := range strings.Fields(text) {
		if utf8.RuneCountInString(original) <= 1 || isDigits(original) {
			continue
		}
		if !isASCIIAlpha(original) {
			continue
		}
		for _, candidate := range resultWords {
			if strings.EqualFold(candidate, original) {
				// An untranslated source word survived; using this result
				// would ship mixed-language text.
				return "", false
			}
		}
	}

	return result, true
}

// GetPromptReferences scans the dictionary for terms present in the text and
// returns them as references for the model. The match here deliberately
// accepts either a word-boundary hit or a space-delimited hit; substitution
// in GetTranslation uses the stricter boundary-only rule.
func (s *Service) GetPromptReferences(text, targetLang string) []Reference {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lock := s.langLock(targetLang)
	lock.Lock()
	defer lock.Unlock()

	dict, err := s.loadLocked(targetLang)
	if err != nil || len(dict) == 0 {
		return nil
	}

	paddedText := " " + text + " "
	var references []Reference
	for _, category := range PriorityCategories {
		terms, ok := dict[category]
		if !ok {
			continue
		}
		for source, translation := range terms {
			if utf8.RuneCountInString(source) <= minTermLength {
				continue
			}
			pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(source) + `\b`)
			if err != nil {
				continue
			}
			if pattern.MatchString(text) || strings.Contains(paddedText, " "+source+" ") {
				references = append(references, Reference{Term: source, Translation: translation})
			}
		}
	}

	return references
}

// AddTranslation upserts a term into the in-memory dictionary and rewrites
// the per-language file synchronously. Returns false when the entry is
// rejected or persistence fails; a failed write leaves the in-memory entry
// in place, which stays authoritative for the process lifetime.
func (s *Service) AddTranslation(text, translation, targetLang, category string, confidence float64) bool {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(translation) == "" {
		return false
	}
	if confidence < minConfidence {
		return false
	}
	if utf8.RuneCountInString(text) > MaxDirectReplacementLength {
		return false
	}
	if !utils.ContainsLetter(text) {
		return false
	}
	if category == "" {
		category = defaultCategory
	}

	lock := s.langLock(targetLang)
	lock.Lock()
	defer lock.Unlock()

	dict, err := s.loadLocked(targetLang)
	if err != nil {
		dict = make(Dictionary)
		s.mu.Lock()
		s.dictionaries[targetLang] = dict
		s.mu.Unlock()
	}

	if _, ok := dict[category]; !ok {
		dict[category] = make(map[string]string)
	}
	dict[category][text] = translation

	if err := s.writeFile(targetLang, dict); err != nil {
		logrus.WithError(err).Errorf("Failed to persist dictionary for %q", targetLang)
		return false
	}

	logrus.Debugf("Dictionary term added: %q -> %q (%s)", text, translation, category)
	return true
}

// ProcessWordMapping ingests learned terms the model emitted in its
// structured response. Model-sourced terms carry a fixed high confidence.
func (s *Service) ProcessWordMapping(mappings []backend.WordMapping, targetLang string) {
	for _, item := range mappings {
		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = defaultCategory
		}
		s.AddTranslation(
			strings.TrimSpace(item.Word),
			strings.TrimSpace(item.Translation),
			targetLang,
			category,
			learnedConfidence,
		)
	}
}

// ReloadDictionary evicts the cached dictionary and re-reads it from disk.
func (s *Service) ReloadDictionary(lang string) bool {
	lock := s.langLock(lang)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	delete(s.dictionaries, lang)
	s.mu.Unlock()

	dict, err := s.loadLocked(lang)
	if err != nil {
		logrus.WithError(err).Errorf("Failed to reload dictionary for %q", lang)
		return false
	}
	return len(dict) > 0
}

// Snapshot returns a deep copy of a language's dictionary for read-only use.
func (s *Service) Snapshot(lang string) (Dictionary, error) {
	lock := s.langLock(lang)
	lock.Lock()
	defer lock.Unlock()

	dict, err := s.loadLocked(lang)
	if err != nil {
		return nil, err
	}

	snapshot := make(Dictionary, len(dict))
	for category, terms := range dict {
		copied := make(map[string]string, len(terms))
		for term, translation := range terms {
			copied[term] = translation
		}
		snapshot[category] = copied
	}
	return snapshot, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func isASCIIAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}
