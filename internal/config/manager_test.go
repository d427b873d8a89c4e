package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerDefaults(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	server := manager.GetEffectiveServerConfig()
	assert.Equal(t, DefaultPort, server.Port)
	assert.Equal(t, DefaultHost, server.Host)

	translation := manager.GetTranslationConfig()
	assert.True(t, translation.EnableCache)
	assert.True(t, translation.EnableDictionary)
	assert.True(t, translation.EnableEvaluation)
	assert.Equal(t, DefaultQualityThreshold, translation.QualityThreshold)
	assert.Equal(t, DefaultImprovementAttempts, translation.MaxImprovementAttempts)
	assert.Equal(t, []string{"en", "ko"}, translation.SupportedLanguages)

	backend := manager.GetBackendConfig()
	assert.Equal(t, DefaultBackendBaseURL, backend.BaseURL)
	assert.Equal(t, DefaultBackendTimeoutSeconds, backend.RequestTimeout)
	assert.Equal(t, DefaultEvalTimeoutSeconds, backend.EvaluationTimeout)
}

func TestNewManagerReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("QUALITY_THRESHOLD", "80")
	t.Setenv("SUPPORTED_LANGUAGES", "en, ko , ja")
	t.Setenv("ENABLE_EVALUATION", "false")
	t.Setenv("AUTH_KEY", "secret")

	manager, err := NewManager()
	require.NoError(t, err)

	assert.Equal(t, 9000, manager.GetEffectiveServerConfig().Port)
	assert.Equal(t, 80, manager.GetTranslationConfig().QualityThreshold)
	assert.Equal(t, []string{"en", "ko", "ja"}, manager.GetTranslationConfig().SupportedLanguages)
	assert.False(t, manager.GetTranslationConfig().EnableEvaluation)
	assert.Equal(t, "secret", manager.GetAuthConfig().Key)
}

func TestNewManagerInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("ENABLE_CACHE", "maybe")

	manager, err := NewManager()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, manager.GetEffectiveServerConfig().Port)
	assert.True(t, manager.GetTranslationConfig().EnableCache)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	t.Setenv("QUALITY_THRESHOLD", "150")
	_, err := NewManager()
	assert.Error(t, err)

	t.Setenv("QUALITY_THRESHOLD", "90")
	t.Setenv("MIN_TEXT_LENGTH_FOR_EVALUATION", "100")
	t.Setenv("MAX_TEXT_LENGTH_FOR_EVALUATION", "10")
	_, err = NewManager()
	assert.Error(t, err)
}

func TestIsDebugMode(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	manager, err := NewManager()
	require.NoError(t, err)
	assert.True(t, manager.IsDebugMode())

	t.Setenv("LOG_LEVEL", "info")
	require.NoError(t, manager.ReloadConfig())
	assert.False(t, manager.IsDebugMode())
}
