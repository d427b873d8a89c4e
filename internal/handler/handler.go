// Package handler implements the HTTP endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"lingo-gate/internal/dictionary"
	app_errors "lingo-gate/internal/errors"
	"lingo-gate/internal/history"
	"lingo-gate/internal/language"
	"lingo-gate/internal/models"
	"lingo-gate/internal/response"
	"lingo-gate/internal/services"
	"lingo-gate/internal/translator"
	"lingo-gate/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server bundles the services the HTTP layer needs.
type Server struct {
	Translator    *translator.Service
	Dictionary    *dictionary.Service
	History       *history.Store
	Normalizer    *language.Normalizer
	LogService    *services.TranslationLogService
	ConfigManager types.ConfigManager
}

// NewServer creates the handler set.
func NewServer(
	translatorService *translator.Service,
	dictionaryService *dictionary.Service,
	historyStore *history.Store,
	normalizer *language.Normalizer,
	logService *services.TranslationLogService,
	configManager types.ConfigManager,
) *Server {
	return &Server{
		Translator:    translatorService,
		Dictionary:    dictionaryService,
		History:       historyStore,
		Normalizer:    normalizer,
		LogService:    logService,
		ConfigManager: configManager,
	}
}

// translateRequest is the POST /api/translate payload.
type translateRequest struct {
	Text       string `json:"text" binding:"required"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang" binding:"required"`
}

// translateResponse is the success payload for POST /api/translate.
type translateResponse struct {
	TranslatedText string  `json:"translated_text"`
	SourceLang     string  `json:"source_lang"`
	TargetLang     string  `json:"target_lang"`
	Cached         bool    `json:"cached"`
	QualityScore   *int    `json:"quality_score,omitempty"`
	Feedback       *string `json:"feedback,omitempty"`
}

// TranslateText handles GET /translate and answers with the bare translated
// string. The route keeps the short from/to query parameters so existing
// plain-text integrations work unchanged.
func (s *Server) TranslateText(c *gin.Context) {
	text := c.Query("text")
	sourceLang := c.Query("from")
	targetLang := c.Query("to")

	result, apiErr := s.translate(c, text, sourceLang, targetLang)
	if apiErr != nil {
		c.String(apiErr.HTTPStatus, apiErr.Message)
		return
	}
	c.String(http.StatusOK, result.TranslatedText)
}

// TranslateJSON handles POST /api/translate with the JSON envelope.
func (s *Server) TranslateJSON(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.ErrInvalidJSON)
		return
	}

	result, apiErr := s.translate(c, req.Text, req.SourceLang, req.TargetLang)
	if apiErr != nil {
		response.Error(c, apiErr)
		return
	}

	response.Success(c, translateResponse{
		TranslatedText: result.TranslatedText,
		SourceLang:     result.SourceLang,
		TargetLang:     result.TargetLang,
		Cached:         result.Cached,
		QualityScore:   result.QualityScore,
		Feedback:       result.Feedback,
	})
}

// translate validates the request, runs the pipeline, and audits the call.
func (s *Server) translate(c *gin.Context, text, sourceLang, targetLang string) (*translator.Result, *app_errors.APIError) {
	if targetLang == "" {
		return nil, app_errors.NewValidationError("target language is required")
	}
	normalized := s.Normalizer.Normalize(targetLang)
	if !s.isSupported(normalized) {
		return nil, app_errors.ErrUnsupportedLanguage
	}

	start := time.Now()
	result, err := s.Translator.Translate(c.Request.Context(), text, sourceLang, targetLang)

	entry := models.TranslationLog{
		SourceLang: s.Normalizer.Normalize(sourceLang),
		TargetLang: normalized,
		SourceText: text,
		DurationMs: time.Since(start).Milliseconds(),
		Success:    err == nil,
	}

	if err != nil {
		var apiErr *app_errors.APIError
		if !errors.As(err, &apiErr) {
			logrus.WithError(err).Error("Translation failed")
			apiErr = app_errors.ErrInternalServer
		}
		entry.ErrorCode = apiErr.Code
		s.LogService.Record(entry)
		return nil, apiErr
	}

	entry.TranslatedText = result.TranslatedText
	entry.Cached = result.Cached
	entry.QualityScore = result.QualityScore
	s.LogService.Record(entry)
	return result, nil
}

func (s *Server) isSupported(lang string) bool {
	for _, supported := range s.ConfigManager.GetTranslationConfig().SupportedLanguages {
		if s.Normalizer.Normalize(supported) == lang {
			return true
		}
	}
	return false
}

// GetDictionary handles GET /api/dictionaries/:lang.
func (s *Server) GetDictionary(c *gin.Context) {
	lang := s.Normalizer.Normalize(c.Param("lang"))

	snapshot, err := s.Dictionary.Snapshot(lang)
	if err != nil {
		logrus.WithError(err).Errorf("Failed to load dictionary for %q", lang)
		response.Error(c, app_errors.ErrInternalServer)
		return
	}
	response.Success(c, gin.H{"language": lang, "dictionary": snapshot})
}

// addTermRequest is the POST /api/dictionaries/:lang/terms payload.
type addTermRequest struct {
	Text        string   `json:"text" binding:"required"`
	Translation string   `json:"translation" binding:"required"`
	Category    string   `json:"category"`
	Confidence  *float64 `json:"confidence"`
}

// AddDictionaryTerm handles POST /api/dictionaries/:lang/terms.
func (s *Server) AddDictionaryTerm(c *gin.Context) {
	var req addTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.ErrInvalidJSON)
		return
	}

	lang := s.Normalizer.Normalize(c.Param("lang"))
	confidence := 1.0
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	if !s.Dictionary.AddTranslation(req.Text, req.Translation, lang, req.Category, confidence) {
		response.Error(c, app_errors.NewValidationError("Term was rejected or could not be persisted"))
		return
	}
	response.Success(c, gin.H{"language": lang, "text": req.Text, "translation": req.Translation})
}

// ReloadDictionary handles POST /api/dictionaries/:lang/reload.
func (s *Server) ReloadDictionary(c *gin.Context) {
	lang := s.Normalizer.Normalize(c.Param("lang"))
	reloaded := s.Dictionary.ReloadDictionary(lang)
	response.Success(c, gin.H{"language": lang, "reloaded": reloaded})
}

// GetHistory handles GET /api/history.
func (s *Server) GetHistory(c *gin.Context) {
	sourceLang := s.Normalizer.Normalize(c.DefaultQuery("source_lang", "auto"))
	targetLang := c.Query("target_lang")
	if targetLang == "" {
		response.Error(c, app_errors.NewValidationError("target_lang is required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	records := s.History.GetHistory(sourceLang, s.Normalizer.Normalize(targetLang), limit)
	response.Success(c, gin.H{
		"source_lang": sourceLang,
		"target_lang": s.Normalizer.Normalize(targetLang),
		"records":     records,
	})
}

// GetLogs handles GET /api/logs with pagination and filters.
func (s *Server) GetLogs(c *gin.Context) {
	query := services.LogQuery{
		SourceLang: c.Query("source_lang"),
		TargetLang: c.Query("target_lang"),
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if success := c.Query("success"); success != "" {
		parsed, err := strconv.ParseBool(success)
		if err == nil {
			query.Success = &parsed
		}
	}

	entries, total, err := s.LogService.List(query)
	if err != nil {
		logrus.WithError(err).Error("Failed to query translation logs")
		response.Error(c, app_errors.ErrDatabase)
		return
	}
	response.Success(c, gin.H{"total": total, "entries": entries})
}

// Health handles GET /health.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Unix()})
}

// GetLanguages handles GET /api/languages.
func (s *Server) GetLanguages(c *gin.Context) {
	supported := s.ConfigManager.GetTranslationConfig().SupportedLanguages
	languages := make([]gin.H, 0, len(supported))
	for _, code := range supported {
		normalized := s.Normalizer.Normalize(code)
		languages = append(languages, gin.H{
			"code": normalized,
			"name": s.Normalizer.DisplayName(normalized),
		})
	}
	response.Success(c, languages)
}
