// Package evaluator scores translations against a rubric and drives the
// iterative improvement loop for translations below the quality threshold.
package evaluator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"lingo-gate/internal/backend"
	"lingo-gate/internal/language"
	"lingo-gate/internal/prompt"
	"lingo-gate/internal/types"
	"lingo-gate/internal/utils"

	"github.com/sirupsen/logrus"
)

const (
	// trivialShortScore is assigned without a model call when the
	// translation is too short to evaluate meaningfully.
	trivialShortScore = 95

	// identicalScore is assigned when source and translation are equal.
	identicalScore = 100

	// fallbackScore covers unparseable evaluator responses; conservative
	// enough to trigger improvement without failing the request.
	fallbackScore = 70

	// maxEvalHistory bounds the retained attempts per source text.
	maxEvalHistory = 5
)

// Attempt is one recorded evaluation of a candidate translation.
type Attempt struct {
	Translation string
	Score       int
	Feedback    string
}

// Service evaluates translation quality and produces improved candidates.
type Service struct {
	client     backend.Client
	normalizer *language.Normalizer
	config     types.TranslationConfig
	backendCfg types.BackendConfig

	mu      sync.Mutex
	history map[string][]Attempt
}

// NewService creates the evaluator service.
func NewService(client backend.Client, normalizer *language.Normalizer, configManager types.ConfigManager) *Service {
	return &Service{
		client:     client,
		normalizer: normalizer,
		config:     configManager.GetTranslationConfig(),
		backendCfg: configManager.GetBackendConfig(),
		history:    make(map[string][]Attempt),
	}
}

// Evaluate scores a translation from 0 to 100 with feedback. Trivial cases
// are scored without a model call; an unparseable model response degrades to
// a conservative fallback score instead of an error.
func (s *Service) Evaluate(ctx context.Context, sourceText, translatedText, sourceLang, targetLang string) (int, string, error) {
	return s.evaluate(ctx, sourceText, translatedText, sourceLang, targetLang, s.backendCfg.EvaluationTimeout)
}

// evaluate is the timeout-parameterized core of Evaluate. Initial evaluations
// run under the short evaluation timeout; re-evaluations inside the
// improvement loop get the full backend timeout.
func (s *Service) evaluate(ctx context.Context, sourceText, translatedText, sourceLang, targetLang string, timeoutSeconds int) (int, string, error) {
	if utf8.RuneCountInString(strings.TrimSpace(sourceText)) < 3 ||
		utf8.RuneCountInString(strings.TrimSpace(translatedText)) < 3 {
		return trivialShortScore, "Text too short for meaningful evaluation", nil
	}
	if sourceText == translatedText {
		return identicalScore, "Translation identical to source", nil
	}

	sourceName := s.normalizer.DisplayName(sourceLang)
	targetName := s.normalizer.DisplayName(targetLang)

	builder := prompt.New(prompt.EvaluatorRole(sourceName, targetName))
	if section := s.attemptsSection(sourceText); section != "" {
		builder = builder.Append(section)
	}

	messages := []backend.Message{
		{Role: backend.RoleSystem, Content: builder.Build()},
		{Role: backend.RoleUser, Content: fmt.Sprintf(
			"Source text (%s): %s\n\nTranslation (%s): %s",
			sourceName, sourceText, targetName, translatedText,
		)},
	}

	evalCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	content, err := s.client.Chat(evalCtx, messages, backend.EvaluationSchema)
	if err != nil {
		return 0, "", fmt.Errorf("evaluation request failed: %w", err)
	}

	score, feedback := s.parseEvaluation(content)
	s.recordAttempt(sourceText, Attempt{Translation: translatedText, Score: score, Feedback: feedback})
	return score, feedback, nil
}

// parseEvaluation extracts score and feedback from the model response,
// clamping the score into [0, 100].
func (s *Service) parseEvaluation(content string) (int, string) {
	result, err := backend.ExtractJSON(content)
	if err != nil {
		logrus.WithError(err).Warn("Evaluation response was not valid JSON, using fallback score")
		return fallbackScore, "Evaluation response could not be parsed"
	}

	score := int(result.Get("score").Int())
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	feedback := strings.TrimSpace(result.Get("feedback").String())
	if feedback == "" {
		feedback = "No feedback provided"
	}
	return score, feedback
}

// attemptsSection renders earlier evaluations of the same source so the
// evaluator scores consistently across improvement rounds.
func (s *Service) attemptsSection(sourceText string) string {
	s.mu.Lock()
	attempts := s.history[sourceText]
	s.mu.Unlock()

	if len(attempts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Previous evaluations of this text:")
	for _, attempt := range attempts {
		fmt.Fprintf(&b, "\n- %q scored %d: %s", attempt.Translation, attempt.Score, attempt.Feedback)
	}
	return b.String()
}

// recordAttempt appends an attempt for a source text, keeping the newest
// maxEvalHistory entries.
func (s *Service) recordAttempt(sourceText string, attempt Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempts := append(s.history[sourceText], attempt)
	if len(attempts) > maxEvalHistory {
		attempts = attempts[len(attempts)-maxEvalHistory:]
	}
	s.history[sourceText] = attempts
}

// Improve asks the model for a better translation given evaluator feedback,
// returning the candidate and the word mappings the model reported for it.
// On any backend or parse failure the current translation is returned
// unchanged; improvement never makes the caller worse off.
func (s *Service) Improve(ctx context.Context, sourceText, currentTranslation, feedback, sourceLang, targetLang string) (string, []backend.WordMapping) {
	sourceName := s.normalizer.DisplayName(sourceLang)
	targetName := s.normalizer.DisplayName(targetLang)

	cleanSource := utils.CleanSpecialChars(sourceText, ".,!?")
	cleanCurrent := utils.CleanSpecialChars(currentTranslation, ".,!?")
	cleanFeedback := utils.CleanSpecialChars(feedback, ".,!?")

	builder := prompt.New(
		fmt.Sprintf(
			"You are a professional %s to %s translator. Improve the given translation based on the feedback. Respond ONLY with the improved translation in the required JSON format.",
			sourceName, targetName,
		),
		prompt.CriticalRules(targetName),
	)
	if section := s.attemptsSection(sourceText); section != "" {
		builder = builder.Append(section)
	}
	builder = builder.Append(prompt.ResponseContract())

	messages := []backend.Message{
		{Role: backend.RoleSystem, Content: builder.Build()},
		{Role: backend.RoleUser, Content: fmt.Sprintf(
			"Source text: %s\n\nCurrent translation: %s\n\nFeedback: %s\n\nProvide an improved translation.",
			cleanSource, cleanCurrent, cleanFeedback,
		)},
	}

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(s.backendCfg.RequestTimeout)*time.Second)
	defer cancel()

	content, err := s.client.Chat(callCtx, messages, backend.TranslationSchema)
	if err != nil {
		logrus.WithError(err).Warn("Improvement request failed, keeping current translation")
		return currentTranslation, nil
	}

	result, err := backend.ExtractJSON(content)
	if err != nil {
		// A plain-text reply is still usable as the improved translation.
		trimmed := strings.TrimSpace(content)
		if trimmed != "" {
			return trimmed, nil
		}
		return currentTranslation, nil
	}

	improved := strings.TrimSpace(result.Get("translation").String())
	if improved == "" {
		return currentTranslation, nil
	}
	return improved, backend.ParseWordMappings(result)
}

// RunImprovementLoop repeatedly improves and re-evaluates a translation
// until it reaches the quality threshold, the model stops changing its
// answer, or the attempt budget runs out. The best-scoring candidate seen
// is returned, never a later but worse one, together with the word mappings
// reported for that candidate. The mappings are nil when the original
// translation remains the best.
func (s *Service) RunImprovementLoop(ctx context.Context, sourceText, translation string, score int, feedback, sourceLang, targetLang string) (string, int, string, []backend.WordMapping) {
	best := translation
	bestScore := score
	bestFeedback := feedback
	var bestMappings []backend.WordMapping
	current := translation
	currentFeedback := feedback

	for attempt := 1; attempt <= s.config.MaxImprovementAttempts; attempt++ {
		if bestScore >= s.config.QualityThreshold {
			break
		}

		improved, improvedMappings := s.Improve(ctx, sourceText, current, currentFeedback, sourceLang, targetLang)
		if improved == current {
			logrus.Debugf("Improvement attempt %d produced no change, stopping", attempt)
			break
		}

		newScore, newFeedback, err := s.evaluate(ctx, sourceText, improved, sourceLang, targetLang, s.backendCfg.RequestTimeout)
		if err != nil {
			// One failed evaluation forfeits this attempt, not the loop.
			logrus.WithError(err).Warnf("Evaluation failed on improvement attempt %d", attempt)
			current = improved
			continue
		}

		logrus.Debugf("Improvement attempt %d: score %d -> %d", attempt, bestScore, newScore)
		if newScore > bestScore {
			best = improved
			bestScore = newScore
			bestFeedback = newFeedback
			bestMappings = improvedMappings
		}

		current = improved
		currentFeedback = newFeedback
	}

	return best, bestScore, bestFeedback, bestMappings
}
