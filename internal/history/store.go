// Package history persists recent translations per language pair so the
// orchestrator can feed earlier choices back into prompts for consistency.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"lingo-gate/internal/types"

	"github.com/sirupsen/logrus"
)

// maxEntriesPerPair bounds each language pair's retained history.
const maxEntriesPerPair = 10

// Record is one completed translation with optional quality metadata.
type Record struct {
	SourceText     string    `json:"source_text"`
	TranslatedText string    `json:"translated_text"`
	QualityScore   *int      `json:"quality_score,omitempty"`
	Feedback       *string   `json:"feedback,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Store keeps translation history keyed by "source:target" pair, bounded per
// pair and persisted wholesale to a single JSON file. Writers for different
// pairs never block each other.
type Store struct {
	filePath string

	mu        sync.Mutex
	pairs     map[string][]Record
	pairLocks map[string]*sync.Mutex
	fileMu    sync.Mutex
}

// NewStore creates the history store from configuration.
func NewStore(configManager types.ConfigManager) *Store {
	return &Store{
		filePath:  configManager.GetStorageConfig().HistoryFile,
		pairs:     make(map[string][]Record),
		pairLocks: make(map[string]*sync.Mutex),
	}
}

// Initialize loads existing history from disk. A missing or corrupt file is
// logged and treated as empty history; the service must come up regardless.
func (s *Store) Initialize() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Warn("Failed to read history file, starting empty")
		}
		return
	}

	pairs := make(map[string][]Record)
	if err := json.Unmarshal(data, &pairs); err != nil {
		logrus.WithError(err).Warn("Failed to parse history file, starting empty")
		return
	}

	s.mu.Lock()
	s.pairs = pairs
	s.mu.Unlock()
	logrus.Infof("History loaded: %d language pairs", len(pairs))
}

// PairKey builds the map key for a language pair.
func PairKey(sourceLang, targetLang string) string {
	return sourceLang + ":" + targetLang
}

func (s *Store) pairLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.pairLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.pairLocks[key] = lock
	}
	return lock
}

// AddHistory appends a record for a language pair. An existing record with
// the same source text is removed first so re-translations refresh their
// entry instead of duplicating it. The oldest entries are dropped once the
// pair exceeds its cap, then the whole store is persisted.
func (s *Store) AddHistory(sourceLang, targetLang, sourceText, translatedText string, qualityScore *int, feedback *string) {
	key := PairKey(sourceLang, targetLang)
	lock := s.pairLock(key)
	lock.Lock()

	s.mu.Lock()
	records := s.pairs[key]
	kept := records[:0]
	for _, record := range records {
		if record.SourceText != sourceText {
			kept = append(kept, record)
		}
	}
	kept = append(kept, Record{
		SourceText:     sourceText,
		TranslatedText: translatedText,
		QualityScore:   qualityScore,
		Feedback:       feedback,
		Timestamp:      time.Now(),
	})
	if len(kept) > maxEntriesPerPair {
		kept = kept[len(kept)-maxEntriesPerPair:]
	}
	s.pairs[key] = kept
	s.mu.Unlock()
	lock.Unlock()

	if err := s.persist(); err != nil {
		logrus.WithError(err).Error("Failed to persist translation history")
	}
}

// GetHistory returns up to limit records for a pair, oldest first. A limit
// of zero or less returns everything retained for the pair.
func (s *Store) GetHistory(sourceLang, targetLang string, limit int) []Record {
	key := PairKey(sourceLang, targetLang)

	s.mu.Lock()
	records := s.pairs[key]
	out := make([]Record, len(records))
	copy(out, records)
	s.mu.Unlock()

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Pairs returns every language pair key with retained history.
func (s *Store) Pairs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.pairs))
	for key := range s.pairs {
		keys = append(keys, key)
	}
	return keys
}

// persist writes the whole store to disk. File writes are serialized so a
// slow disk never interleaves two snapshots.
func (s *Store) persist() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.pairs, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	return os.WriteFile(s.filePath, data, 0644)
}
