package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	defaultModel        = "google/gemini-2.0-flash-001"
	defaultBaseURL      = "https://openrouter.ai/api/v1/"
	defaultSiteURL      = "https://structcrew.online"
	defaultSiteName     = "StructCrew Platform"
	defaultTemplatesDir = "templates"
	defaultTemplateFile = "offer_template.docx"
	defaultOutputDir    = "output"
	defaultCompany      = "StructCrew"
	defaultPort         = "8080"
	defaultLLMTimeout   = 60 * time.Second
	defaultParseRate    = 30
)

// ConfigurationError lists every required setting that is missing.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("CRITICAL: Missing environment variables: %s", strings.Join(e.Missing, ", "))
}

type Config struct {
	// LLM Configuration
	LLMAPIKey  string        // OpenRouter API key
	LLMModel   string        // "google/gemini-2.0-flash-001"
	LLMBaseURL string        // OpenAI-compatible endpoint
	LLMTimeout time.Duration // 0 disables the client timeout
	SiteURL    string        // sent as HTTP-Referer
	SiteName   string        // sent as X-Title

	// Documents
	TemplatesDir        string
	DefaultTemplateFile string
	TemplateCatalog     string // optional YAML catalog override
	OutputDir           string
	DefaultCompany      string

	// Server
	Port               string
	ParseRatePerMinute int
	ExtractionCacheTTL time.Duration // opt-in; 0 (default) disables the cache
	LogLevel           string
	LogFormat          string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("could not load .env file, using environment variables")
	}

	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		LLMAPIKey:           os.Getenv("OPENROUTER_API_KEY"),
		LLMModel:            getenv("LLM_MODEL", defaultModel),
		LLMBaseURL:          getenv("LLM_BASE_URL", defaultBaseURL),
		LLMTimeout:          durationEnv("LLM_TIMEOUT", defaultLLMTimeout),
		SiteURL:             getenv("SITE_URL", getenv("NEXT_PUBLIC_SITE_URL", defaultSiteURL)),
		SiteName:            getenv("SITE_NAME", defaultSiteName),
		TemplatesDir:        getenv("TEMPLATES_DIR", defaultTemplatesDir),
		DefaultTemplateFile: getenv("DEFAULT_TEMPLATE_FILE", defaultTemplateFile),
		TemplateCatalog:     os.Getenv("TEMPLATE_CATALOG"),
		OutputDir:           getenv("OUTPUT_DIR", defaultOutputDir),
		DefaultCompany:      getenv("DEFAULT_COMPANY", defaultCompany),
		Port:                getenv("PORT", defaultPort),
		ParseRatePerMinute:  intEnv("PARSE_RATE_PER_MINUTE", defaultParseRate),
		ExtractionCacheTTL:  durationEnv("EXTRACTION_CACHE_TTL", 0),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		LogFormat:           getenv("LOG_FORMAT", "console"),
	}
}

// Validate reports all missing required settings at once.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.LLMAPIKey) == "" {
		missing = append(missing, "OPENROUTER_API_KEY")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid number, using default")
		return fallback
	}
	return n
}
