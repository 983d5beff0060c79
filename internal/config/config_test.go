package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENROUTER_API_KEY", "LLM_MODEL", "LLM_BASE_URL", "LLM_TIMEOUT", "SITE_URL",
		"NEXT_PUBLIC_SITE_URL", "SITE_NAME", "TEMPLATES_DIR", "DEFAULT_TEMPLATE_FILE",
		"TEMPLATE_CATALOG", "OUTPUT_DIR", "DEFAULT_COMPANY", "PORT", "PARSE_RATE_PER_MINUTE",
		"EXTRACTION_CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	assert.Equal(t, "google/gemini-2.0-flash-001", cfg.LLMModel)
	assert.Equal(t, "https://openrouter.ai/api/v1/", cfg.LLMBaseURL)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "https://structcrew.online", cfg.SiteURL)
	assert.Equal(t, "StructCrew Platform", cfg.SiteName)
	assert.Equal(t, "templates", cfg.TemplatesDir)
	assert.Equal(t, "offer_template.docx", cfg.DefaultTemplateFile)
	assert.Equal(t, "StructCrew", cfg.DefaultCompany)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30, cfg.ParseRatePerMinute)
	assert.Zero(t, cfg.ExtractionCacheTTL)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("NEXT_PUBLIC_SITE_URL", "https://example.test")
	t.Setenv("PARSE_RATE_PER_MINUTE", "0")
	t.Setenv("PORT", "9000")
	t.Setenv("EXTRACTION_CACHE_TTL", "5m")

	cfg := FromEnv()
	assert.Equal(t, "sk-test", cfg.LLMAPIKey)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "https://example.test", cfg.SiteURL)
	assert.Equal(t, 0, cfg.ParseRatePerMinute)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.ExtractionCacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_TIMEOUT", "soon")
	t.Setenv("PARSE_RATE_PER_MINUTE", "-3")

	cfg := FromEnv()
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 30, cfg.ParseRatePerMinute)
}

func TestValidateMissingKey(t *testing.T) {
	clearEnv(t)

	err := FromEnv().Validate()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"OPENROUTER_API_KEY"}, cfgErr.Missing)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")
}
