package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"lingo-gate/internal/backend"
	"lingo-gate/internal/cache"
	"lingo-gate/internal/config"
	"lingo-gate/internal/db"
	"lingo-gate/internal/dictionary"
	"lingo-gate/internal/evaluator"
	"lingo-gate/internal/handler"
	"lingo-gate/internal/history"
	"lingo-gate/internal/language"
	"lingo-gate/internal/router"
	"lingo-gate/internal/services"
	"lingo-gate/internal/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	response string
	err      error
}

func (s *stubClient) Chat(ctx context.Context, messages []backend.Message, format any) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.response == "" {
		return "", errors.New("no scripted response")
	}
	return s.response, nil
}

func (s *stubClient) Ping(ctx context.Context) error { return s.err }

func newTestRouter(t *testing.T, client backend.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("DICTIONARIES_PATH", t.TempDir())
	t.Setenv("HISTORY_FILE", filepath.Join(t.TempDir(), "history.json"))
	t.Setenv("DATABASE_DSN", filepath.Join(t.TempDir(), "test.db"))
	t.Setenv("ENABLE_EVALUATION", "false")
	t.Setenv("AUTH_KEY", "")

	manager, err := config.NewManager()
	require.NoError(t, err)

	normalizer := language.NewNormalizer()
	dict := dictionary.NewService(manager)
	historyStore := history.NewStore(manager)
	memCache := cache.NewMemoryCache()
	eval := evaluator.NewService(client, normalizer, manager)
	translatorService := translator.NewService(client, normalizer, dict, historyStore, memCache, eval, manager)

	database, err := db.NewDB(manager)
	require.NoError(t, err)
	logService := services.NewTranslationLogService(database)

	server := handler.NewServer(translatorService, dict, historyStore, normalizer, logService, manager)
	return router.NewRouter(server, manager)
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestRouter(t, &stubClient{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestTranslatePlainText(t *testing.T) {
	engine := newTestRouter(t, &stubClient{response: `{"translation": "안녕하세요"}`})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(
		http.MethodGet, "/translate?text=hello&from=en&to=ko", nil,
	))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "안녕하세요", w.Body.String())
}

func TestTranslatePlainTextUnsupportedLanguage(t *testing.T) {
	engine := newTestRouter(t, &stubClient{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(
		http.MethodGet, "/translate?text=hello&from=en&to=fr", nil,
	))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTranslateJSON(t *testing.T) {
	engine := newTestRouter(t, &stubClient{response: `{"translation": "안녕하세요"}`})

	payload, _ := json.Marshal(map[string]string{
		"text": "hello", "source_lang": "en", "target_lang": "ko",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/translate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Code int `json:"code"`
		Data struct {
			TranslatedText string `json:"translated_text"`
			TargetLang     string `json:"target_lang"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 0, envelope.Code)
	assert.Equal(t, "안녕하세요", envelope.Data.TranslatedText)
	assert.Equal(t, "ko", envelope.Data.TargetLang)
}

func TestTranslateJSONMissingTargetLang(t *testing.T) {
	engine := newTestRouter(t, &stubClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/translate", bytes.NewReader([]byte(`{"text": "hello"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTranslateBackendDown(t *testing.T) {
	engine := newTestRouter(t, &stubClient{err: backend.ErrUnreachable})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(
		http.MethodGet, "/translate?text=hello&from=en&to=ko", nil,
	))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDictionaryRoundTrip(t *testing.T) {
	engine := newTestRouter(t, &stubClient{})

	payload, _ := json.Marshal(map[string]any{
		"text": "Sara", "translation": "사라", "category": "character_names",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/dictionaries/ko/terms", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dictionaries/ko", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "사라")
}

func TestGetLanguages(t *testing.T) {
	engine := newTestRouter(t, &stubClient{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/languages", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Korean")
	assert.Contains(t, w.Body.String(), "English")
}

func TestGetHistoryRequiresTargetLang(t *testing.T) {
	engine := newTestRouter(t, &stubClient{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLogsEmpty(t *testing.T) {
	engine := newTestRouter(t, &stubClient{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)
}
