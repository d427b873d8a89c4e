package translator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"lingo-gate/internal/backend"
	"lingo-gate/internal/cache"
	"lingo-gate/internal/config"
	"lingo-gate/internal/dictionary"
	app_errors "lingo-gate/internal/errors"
	"lingo-gate/internal/evaluator"
	"lingo-gate/internal/history"
	"lingo-gate/internal/language"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient replays scripted responses and counts calls.
type stubClient struct {
	responses []string
	err       error
	calls     int
}

func (s *stubClient) Chat(ctx context.Context, messages []backend.Message, format any) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("stub exhausted")
	}
	response := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return response, nil
}

func (s *stubClient) Ping(ctx context.Context) error { return s.err }

type fixture struct {
	service    *Service
	client     *stubClient
	dictionary *dictionary.Service
	history    *history.Store
	cache      *cache.MemoryCache
}

func newFixture(t *testing.T, client *stubClient, env map[string]string) *fixture {
	t.Helper()
	t.Setenv("DICTIONARIES_PATH", t.TempDir())
	t.Setenv("HISTORY_FILE", filepath.Join(t.TempDir(), "history.json"))
	t.Setenv("ENABLE_EVALUATION", "false")
	for key, value := range env {
		t.Setenv(key, value)
	}

	manager, err := config.NewManager()
	require.NoError(t, err)

	normalizer := language.NewNormalizer()
	dict := dictionary.NewService(manager)
	historyStore := history.NewStore(manager)
	memCache := cache.NewMemoryCache()
	eval := evaluator.NewService(client, normalizer, manager)

	return &fixture{
		service:    NewService(client, normalizer, dict, historyStore, memCache, eval, manager),
		client:     client,
		dictionary: dict,
		history:    historyStore,
		cache:      memCache,
	}
}

func TestTranslateSameLanguageShortCircuit(t *testing.T) {
	f := newFixture(t, &stubClient{}, nil)

	result, err := f.service.Translate(context.Background(), "hello world", "en", "English")
	require.NoError(t, err)
	assert.Equal(t, "hello world", result.TranslatedText)
	assert.Equal(t, "en", result.SourceLang)
	assert.Equal(t, "en", result.TargetLang)
	assert.Zero(t, f.client.calls)
}

func TestTranslateEmptyText(t *testing.T) {
	f := newFixture(t, &stubClient{}, nil)

	result, err := f.service.Translate(context.Background(), "   ", "en", "ko")
	require.NoError(t, err)
	assert.Equal(t, "", result.TranslatedText)
	assert.Zero(t, f.client.calls)
}

func TestTranslateDefaultsSourceToAuto(t *testing.T) {
	client := &stubClient{responses: []string{`{"translation": "안녕하세요"}`}}
	f := newFixture(t, client, nil)

	result, err := f.service.Translate(context.Background(), "hello", "", "ko")
	require.NoError(t, err)
	assert.Equal(t, "auto", result.SourceLang)
	assert.Equal(t, "안녕하세요", result.TranslatedText)
}

func TestTranslateCachesModelResult(t *testing.T) {
	client := &stubClient{responses: []string{`{"translation": "안녕하세요"}`}}
	f := newFixture(t, client, nil)

	first, err := f.service.Translate(context.Background(), "hello", "en", "ko")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, f.client.calls)

	second, err := f.service.Translate(context.Background(), "hello", "en", "ko")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "안녕하세요", second.TranslatedText)
	assert.Equal(t, 1, f.client.calls, "repeat requests must not reach the model")
}

func TestTranslateDictionaryHit(t *testing.T) {
	f := newFixture(t, &stubClient{}, nil)
	require.True(t, f.dictionary.AddTranslation("Sara", "사라", "ko", "character_names", 1.0))

	result, err := f.service.Translate(context.Background(), "Sara", "en", "ko")
	require.NoError(t, err)
	assert.Equal(t, "사라", result.TranslatedText)
	require.NotNil(t, result.QualityScore)
	assert.Equal(t, 100, *result.QualityScore)
	assert.Zero(t, f.client.calls)

	records := f.history.GetHistory("en", "ko", 0)
	require.Len(t, records, 1)
	assert.Equal(t, "사라", records[0].TranslatedText)

	// The dictionary answer is now cached too.
	cached, ok := f.cache.Get("en", "ko", "Sara")
	assert.True(t, ok)
	assert.Equal(t, "사라", cached)
}

func TestTranslateLearnsWordMappings(t *testing.T) {
	client := &stubClient{responses: []string{
		`{"translation": "사라는 왕국에 들어갔다", "word_mapping": [{"word": "Sara", "translation": "사라", "category": "proper_nouns"}]}`,
	}}
	f := newFixture(t, client, nil)

	_, err := f.service.Translate(context.Background(), "Sara entered the kingdom", "en", "ko")
	require.NoError(t, err)

	snapshot, err := f.dictionary.Snapshot("ko")
	require.NoError(t, err)
	assert.Equal(t, "사라", snapshot["proper_nouns"]["Sara"])
}

func TestTranslatePlainTextResponseUsedVerbatim(t *testing.T) {
	client := &stubClient{responses: []string{"안녕하세요"}}
	f := newFixture(t, client, nil)

	result, err := f.service.Translate(context.Background(), "hello", "en", "ko")
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요", result.TranslatedText)
}

func TestTranslateEmptyModelReply(t *testing.T) {
	client := &stubClient{responses: []string{`{"translation": ""}`}}
	f := newFixture(t, client, nil)

	_, err := f.service.Translate(context.Background(), "hello", "en", "ko")
	assert.ErrorIs(t, err, app_errors.ErrEmptyTranslation)
}

func TestTranslateBackendUnreachable(t *testing.T) {
	client := &stubClient{err: fmt.Errorf("%w: connection refused", backend.ErrUnreachable)}
	f := newFixture(t, client, nil)

	_, err := f.service.Translate(context.Background(), "hello", "en", "ko")
	assert.ErrorIs(t, err, app_errors.ErrBackendUnavailable)
}

func TestTranslateRecordsHistory(t *testing.T) {
	client := &stubClient{responses: []string{`{"translation": "안녕하세요"}`}}
	f := newFixture(t, client, nil)

	_, err := f.service.Translate(context.Background(), "hello", "en", "ko")
	require.NoError(t, err)

	records := f.history.GetHistory("en", "ko", 0)
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records[0].SourceText)
	assert.Equal(t, "안녕하세요", records[0].TranslatedText)
}

func TestTranslateEvaluationTriggersImprovement(t *testing.T) {
	client := &stubClient{responses: []string{
		`{"translation": "어색한 번역 문장"}`,
		`{"score": 60, "feedback": "awkward phrasing"}`,
		`{"translation": "자연스러운 번역 문장"}`,
		`{"score": 95, "feedback": "natural"}`,
	}}
	f := newFixture(t, client, map[string]string{
		"ENABLE_EVALUATION": "true",
		"QUALITY_THRESHOLD": "90",
	})

	result, err := f.service.Translate(context.Background(), "an awkward sentence", "en", "ko")
	require.NoError(t, err)
	assert.Equal(t, "자연스러운 번역 문장", result.TranslatedText)
	require.NotNil(t, result.QualityScore)
	assert.Equal(t, 95, *result.QualityScore)
}

func TestTranslateImprovedCandidateReplacesWordMappings(t *testing.T) {
	client := &stubClient{responses: []string{
		`{"translation": "어색한 번역", "word_mapping": [{"word": "kingdom", "translation": "나라", "category": "place_names"}]}`,
		`{"score": 60, "feedback": "awkward"}`,
		`{"translation": "사라는 왕국에 들어갔다", "word_mapping": [{"word": "Sara", "translation": "사라", "category": "proper_nouns"}]}`,
		`{"score": 95, "feedback": "natural"}`,
	}}
	f := newFixture(t, client, map[string]string{
		"ENABLE_EVALUATION": "true",
		"QUALITY_THRESHOLD": "90",
	})

	result, err := f.service.Translate(context.Background(), "Sara entered the kingdom", "en", "ko")
	require.NoError(t, err)
	assert.Equal(t, "사라는 왕국에 들어갔다", result.TranslatedText)

	// The adopted candidate's mappings are learned, not the ones from the
	// translation it replaced.
	snapshot, err := f.dictionary.Snapshot("ko")
	require.NoError(t, err)
	assert.Equal(t, "사라", snapshot["proper_nouns"]["Sara"])
	assert.NotContains(t, snapshot["place_names"], "kingdom")
}

func TestTranslateTrivialTranslationSkipsEvaluation(t *testing.T) {
	client := &stubClient{responses: []string{`{"translation": "안"}`}}
	f := newFixture(t, client, map[string]string{"ENABLE_EVALUATION": "true"})

	result, err := f.service.Translate(context.Background(), "a sentence long enough to evaluate", "en", "ko")
	require.NoError(t, err)
	assert.Nil(t, result.QualityScore, "one-character translations must not be evaluated")
	assert.Equal(t, 1, f.client.calls)
}

func TestTranslateEvaluationSkippedOutsideWindow(t *testing.T) {
	client := &stubClient{responses: []string{`{"translation": "안녕"}`}}
	f := newFixture(t, client, map[string]string{"ENABLE_EVALUATION": "true"})

	result, err := f.service.Translate(context.Background(), "hi", "en", "ko")
	require.NoError(t, err)
	assert.Nil(t, result.QualityScore, "texts below the window must not be evaluated")
	assert.Equal(t, 1, f.client.calls)
}

func TestTranslateDisabledCacheAlwaysCallsModel(t *testing.T) {
	client := &stubClient{responses: []string{`{"translation": "안녕하세요"}`}}
	f := newFixture(t, client, map[string]string{"ENABLE_CACHE": "false"})

	_, err := f.service.Translate(context.Background(), "hello", "en", "ko")
	require.NoError(t, err)
	_, err = f.service.Translate(context.Background(), "hello", "en", "ko")
	require.NoError(t, err)
	assert.Equal(t, 2, f.client.calls)
}
