// Package translator orchestrates the full translation flow: cache and
// dictionary short-circuits, prompt assembly, the backend call, optional
// quality evaluation, and persistence of results.
package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"lingo-gate/internal/backend"
	"lingo-gate/internal/cache"
	"lingo-gate/internal/dictionary"
	app_errors "lingo-gate/internal/errors"
	"lingo-gate/internal/evaluator"
	"lingo-gate/internal/history"
	"lingo-gate/internal/language"
	"lingo-gate/internal/prompt"
	"lingo-gate/internal/types"
	"lingo-gate/internal/utils"

	"github.com/sirupsen/logrus"
)

// historyPromptLimit caps how many past translations enter the prompt.
const historyPromptLimit = 5

// dictionaryHitScore is recorded for translations answered entirely from
// the dictionary.
const dictionaryHitScore = 100

// Result is a completed translation with its provenance and quality data.
type Result struct {
	TranslatedText string
	SourceLang     string
	TargetLang     string
	Cached         bool
	QualityScore   *int
	Feedback       *string
}

// Service is the translation orchestrator.
type Service struct {
	client     backend.Client
	normalizer *language.Normalizer
	dictionary *dictionary.Service
	historyDB  *history.Store
	cache      cache.Cache
	evaluator  *evaluator.Service
	config     types.TranslationConfig
	backendCfg types.BackendConfig
}

// NewService wires the orchestrator from its collaborators.
func NewService(
	client backend.Client,
	normalizer *language.Normalizer,
	dict *dictionary.Service,
	historyStore *history.Store,
	translationCache cache.Cache,
	eval *evaluator.Service,
	configManager types.ConfigManager,
) *Service {
	return &Service{
		client:     client,
		normalizer: normalizer,
		dictionary: dict,
		historyDB:  historyStore,
		cache:      translationCache,
		evaluator:  eval,
		config:     configManager.GetTranslationConfig(),
		backendCfg: configManager.GetBackendConfig(),
	}
}

// Translate runs the full pipeline for one text. Same-language requests and
// empty texts return immediately; cache and dictionary answer before the
// model is consulted.
func (s *Service) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	if strings.TrimSpace(sourceLang) == "" {
		sourceLang = "auto"
	}
	sourceLang = s.normalizer.Normalize(sourceLang)
	targetLang = s.normalizer.Normalize(targetLang)

	result := &Result{SourceLang: sourceLang, TargetLang: targetLang}

	if sourceLang == targetLang {
		result.TranslatedText = text
		return result, nil
	}
	if strings.TrimSpace(text) == "" {
		result.TranslatedText = ""
		return result, nil
	}

	if s.config.EnableCache {
		if cached, ok := s.cache.Get(sourceLang, targetLang, text); ok {
			logrus.Debugf("Cache hit for %s -> %s", sourceLang, targetLang)
			result.TranslatedText = cached
			result.Cached = true
			return result, nil
		}
	}

	if s.config.EnableDictionary {
		if translated, ok := s.dictionary.GetTranslation(text, targetLang); ok {
			logrus.Debugf("Dictionary hit for %q", text)
			score := dictionaryHitScore
			s.historyDB.AddHistory(sourceLang, targetLang, text, translated, &score, nil)
			if s.config.EnableCache {
				s.cache.Set(sourceLang, targetLang, text, translated)
			}
			result.TranslatedText = translated
			result.QualityScore = &score
			return result, nil
		}
	}

	translated, wordMappings, err := s.translateWithModel(ctx, text, sourceLang, targetLang)
	if err != nil {
		return nil, err
	}

	score, feedback := s.maybeEvaluate(ctx, text, &translated, &wordMappings, sourceLang, targetLang)
	result.TranslatedText = translated
	result.QualityScore = score
	result.Feedback = feedback

	s.historyDB.AddHistory(sourceLang, targetLang, text, translated, score, feedback)
	if s.config.EnableCache {
		s.cache.Set(sourceLang, targetLang, text, translated)
	}
	if s.config.EnableDictionary && len(wordMappings) > 0 {
		// Best effort; a failed dictionary write never fails the request.
		s.dictionary.ProcessWordMapping(wordMappings, targetLang)
	}

	return result, nil
}

// translateWithModel builds the prompt and performs the backend call.
func (s *Service) translateWithModel(ctx context.Context, text, sourceLang, targetLang string) (string, []backend.WordMapping, error) {
	sourceName := s.normalizer.DisplayName(sourceLang)
	targetName := s.normalizer.DisplayName(targetLang)

	builder := prompt.New(
		prompt.TranslatorRole(sourceName, targetName),
		prompt.CriticalRules(targetName),
	)

	if s.config.EnableDictionary {
		builder = builder.Append(prompt.DictionaryUsage(targetName))
		refs := s.dictionary.GetPromptReferences(text, targetLang)
		if len(refs) > 0 {
			promptRefs := make([]prompt.Reference, len(refs))
			for i, ref := range refs {
				promptRefs[i] = prompt.Reference{Term: ref.Term, Translation: ref.Translation}
			}
			builder = builder.Append(prompt.References(promptRefs))
		}
	}

	if section := s.historySection(sourceLang, targetLang); section != "" {
		builder = builder.Append(section)
	}
	builder = builder.Append(prompt.ResponseContract())

	clean := utils.CleanSpecialChars(text, `.,!?'"`)
	messages := []backend.Message{
		{Role: backend.RoleSystem, Content: builder.Build()},
		{Role: backend.RoleUser, Content: "Translate: " + clean},
	}

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(s.backendCfg.RequestTimeout)*time.Second)
	defer cancel()

	content, err := s.client.Chat(callCtx, messages, backend.TranslationSchema)
	if err != nil {
		if errors.Is(err, backend.ErrUnreachable) {
			return "", nil, app_errors.ErrBackendUnavailable
		}
		return "", nil, fmt.Errorf("translation request failed: %w", err)
	}

	translated, wordMappings := parseTranslation(content)
	if strings.TrimSpace(translated) == "" {
		return "", nil, app_errors.ErrEmptyTranslation
	}
	return translated, wordMappings, nil
}

// parseTranslation extracts the translation and learned terms from the model
// response. A non-JSON reply is used verbatim as the translation.
func parseTranslation(content string) (string, []backend.WordMapping) {
	result, err := backend.ExtractJSON(content)
	if err != nil {
		return strings.TrimSpace(content), nil
	}

	translated := strings.TrimSpace(result.Get("translation").String())
	return translated, backend.ParseWordMappings(result)
}

// historySection renders recent translations for the pair so the model keeps
// terminology consistent with earlier output.
func (s *Service) historySection(sourceLang, targetLang string) string {
	records := s.historyDB.GetHistory(sourceLang, targetLang, historyPromptLimit)
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Recent translations for consistency:")
	for _, record := range records {
		fmt.Fprintf(&b, "\n- %q -> %q", record.SourceText, record.TranslatedText)
	}
	return b.String()
}

// maybeEvaluate scores the translation when evaluation is enabled, the text
// falls inside the evaluation length window, and the translation itself is
// non-trivial, running the improvement loop for scores below the threshold.
// When the loop adopts an improved candidate, that candidate's word mappings
// replace the ones from the superseded translation. Evaluation failures are
// logged and the unevaluated translation is kept.
func (s *Service) maybeEvaluate(ctx context.Context, sourceText string, translated *string, wordMappings *[]backend.WordMapping, sourceLang, targetLang string) (*int, *string) {
	if !s.config.EnableEvaluation {
		return nil, nil
	}
	length := utf8.RuneCountInString(strings.TrimSpace(sourceText))
	if length < s.config.MinEvalTextLength || length > s.config.MaxEvalTextLength {
		return nil, nil
	}
	if utf8.RuneCountInString(strings.TrimSpace(*translated)) < 2 {
		return nil, nil
	}

	score, feedback, err := s.evaluator.Evaluate(ctx, sourceText, *translated, sourceLang, targetLang)
	if err != nil {
		logrus.WithError(err).Warn("Quality evaluation failed, returning unevaluated translation")
		return nil, nil
	}

	if score < s.config.QualityThreshold {
		best, bestScore, bestFeedback, bestMappings := s.evaluator.RunImprovementLoop(
			ctx, sourceText, *translated, score, feedback, sourceLang, targetLang,
		)
		if best != *translated {
			*wordMappings = bestMappings
		}
		*translated = best
		score = bestScore
		feedback = bestFeedback
	}

	return &score, &feedback
}
