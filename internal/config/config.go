package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Port       string
	DBUrl      string
	AppEnv     string
	EnableDocs bool

	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	AIProvider    string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	TTSURL          string
	CatalogCacheTTL time.Duration
	CoachRatePerMin int

	LogLevel       string
	LogFile        string
	LogToStdout    bool
	LogJSON        bool
	TracingEnabled bool

	Coach CoachSettings
}

// CoachSettings tunes the prompt assembler. Values can be overridden by the
// [coach] table of the file named in COACH_CONFIG_FILE.
type CoachSettings struct {
	WordBudget         int      `toml:"word_budget"`
	HighlightedGroups  []string `toml:"highlighted_groups"`
	AskTemperature     float64  `toml:"ask_temperature"`
	AskMaxTokens       int      `toml:"ask_max_tokens"`
	HeatmapTemperature float64  `toml:"heatmap_temperature"`
	HeatmapMaxTokens   int      `toml:"heatmap_max_tokens"`
	RevealIntervalMS   int      `toml:"reveal_interval_ms"`
	ImageServiceURL    string   `toml:"image_service_url"`
	NoResponseText     string   `toml:"no_response_text"`
	AskFailureText     string   `toml:"ask_failure_text"`
	HeatmapFailureText string   `toml:"heatmap_failure_text"`
}

type coachFile struct {
	Coach CoachSettings `toml:"coach"`
}

func DefaultCoachSettings() CoachSettings {
	return CoachSettings{
		WordBudget:         50,
		HighlightedGroups:  []string{"Chest", "Biceps", "Shoulders"},
		AskTemperature:     0.7,
		AskMaxTokens:       1024,
		HeatmapTemperature: 0.5,
		HeatmapMaxTokens:   100,
		RevealIntervalMS:   70,
		ImageServiceURL:    "https://image.pollinations.ai/prompt/",
		NoResponseText:     "⚠️ No AI response.",
		AskFailureText:     "❌ Could not connect to Gemini API.",
		HeatmapFailureText: "❌ Image generation failed.",
	}
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		DBUrl:      getEnv("DB_URL", ""),
		AppEnv:     normalizeEnv(getEnv("APP_ENV", "production")),
		EnableDocs: getEnvBool("ENABLE_API_DOCS", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),

		AIProvider:    strings.ToLower(strings.TrimSpace(getEnv("AI_PROVIDER", ProviderGemini))),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		TTSURL:          getEnv("TTS_URL", ""),
		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		CoachRatePerMin: getEnvInt("COACH_RATE_PER_MIN", 20),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
		LogToStdout:    getEnvBool("LOG_TO_STDOUT", true),
		LogJSON:        getEnvBool("LOG_JSON", false),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),

		Coach: DefaultCoachSettings(),
	}

	switch cfg.AIProvider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER: %s", cfg.AIProvider)
	}

	if path := getEnv("COACH_CONFIG_FILE", ""); path != "" {
		settings, err := LoadCoachSettings(path, cfg.Coach)
		if err != nil {
			return nil, err
		}
		cfg.Coach = settings
	}

	return cfg, nil
}

// LoadCoachSettings decodes the [coach] table of a TOML file on top of base.
// Keys missing from the file keep their base value.
func LoadCoachSettings(path string, base CoachSettings) (CoachSettings, error) {
	file := coachFile{Coach: base}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return base, fmt.Errorf("decode coach config %s: %w", path, err)
	}
	if file.Coach.WordBudget <= 0 {
		return base, fmt.Errorf("coach config %s: word_budget must be greater than 0", path)
	}
	return file.Coach, nil
}

func (s CoachSettings) RevealInterval() time.Duration {
	return time.Duration(s.RevealIntervalMS) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) DocsEnabled() bool {
	return c != nil && c.EnableDocs && c.AppEnv == "development"
}
