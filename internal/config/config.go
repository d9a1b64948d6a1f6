package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	appName           = "newsrelay"
	configPathEnv     = "NEWSRELAY_CONFIG"
	logLevelEnv       = "NEWSRELAY_LOG_LEVEL"
	sentryDSNEnv      = "SENTRY_DSN"
	storageDriverEnv  = "NEWSRELAY_STORAGE_DRIVER"
	storagePathEnv    = "NEWSRELAY_STORAGE_PATH"
	databaseDSNEnv    = "DATABASE_DSN"
	llmProviderEnv    = "LLM_PROVIDER"
	llmAPIKeyEnv      = "LLM_API_KEY"
	groqAPIKeyEnv     = "GROQ_API_KEY"
	llmModelEnv       = "LLM_MODEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHANNEL_ID"

	defaultFetchTimeout    = 10 * time.Second
	defaultLLMTimeout      = 60 * time.Second
	defaultTelegramTimeout = 20 * time.Second
	defaultInterval        = 30 * time.Minute

	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"

	DefaultOpenAIEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	DefaultOpenAIModel    = "llama3-70b-8192"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"

	// DefaultUserAgent mimics a desktop browser; several news sites reject obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// ErrMissingCredential reports that a required secret is absent.
var ErrMissingCredential = errors.New("missing credential")

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Fetch         FetchConfig        `yaml:"fetch"`
	LLM           LLMConfig          `yaml:"llm"`
	Notifications NotificationConfig `yaml:"notifications"`
	Storage       StorageConfig      `yaml:"storage"`
	SourcesFile   string             `yaml:"sourcesFile"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// LoggingConfig controls the slog handler and the optional Sentry sink.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	SentryDSN string `yaml:"sentryDsn"`
}

// SchedulerConfig defines how the daemon repeats cycles.
type SchedulerConfig struct {
	Interval string `yaml:"interval"`
	// Batch is the number of sources per cycle; 0 processes every source.
	Batch int `yaml:"batch"`
}

// IntervalDuration parses Interval, falling back to the default.
func (s SchedulerConfig) IntervalDuration() time.Duration {
	return parseDuration(s.Interval, defaultInterval)
}

// FetchConfig tunes the HTML document fetcher.
type FetchConfig struct {
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"userAgent"`
}

// TimeoutDuration parses Timeout, falling back to the default.
func (f FetchConfig) TimeoutDuration() time.Duration {
	return parseDuration(f.Timeout, defaultFetchTimeout)
}

// LLMConfig defines how to contact the text-generation service.
type LLMConfig struct {
	Provider       string  `yaml:"provider"`
	Endpoint       string  `yaml:"endpoint"`
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"apiKey"`
	SystemPrompt   string  `yaml:"systemPrompt"`
	PromptTemplate string  `yaml:"promptTemplate"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"maxTokens"`
	Timeout        string  `yaml:"timeout"`
}

// TimeoutDuration parses Timeout, falling back to the default.
func (l LLMConfig) TimeoutDuration() time.Duration {
	return parseDuration(l.Timeout, defaultLLMTimeout)
}

// WithProviderDefaults fills Model and Endpoint for the selected provider
// when they are not set explicitly.
func (l LLMConfig) WithProviderDefaults() LLMConfig {
	switch strings.ToLower(strings.TrimSpace(l.Provider)) {
	case ProviderAnthropic:
		if l.Model == "" {
			l.Model = DefaultAnthropicModel
		}
	case "", ProviderOpenAI, ProviderGroq:
		if l.Model == "" {
			l.Model = DefaultOpenAIModel
		}
		if l.Endpoint == "" {
			l.Endpoint = DefaultOpenAIEndpoint
		}
	}
	return l
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	APIBase  string `yaml:"apiBase"`
	Timeout  string `yaml:"timeout"`
}

// TimeoutDuration parses Timeout, falling back to the default.
func (t TelegramConfig) TimeoutDuration() time.Duration {
	return parseDuration(t.Timeout, defaultTelegramTimeout)
}

// StorageConfig selects the dedup store backend.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An empty path falls back to NEWSRELAY_CONFIG; no path at all means defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	cfg := defaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.LLM = cfg.LLM.WithProviderDefaults()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(sentryDSNEnv); v != "" {
		c.Logging.SentryDSN = v
	}

	if v := os.Getenv(storageDriverEnv); v != "" {
		c.Storage.Driver = v
	}

	if v := os.Getenv(storagePathEnv); v != "" {
		c.Storage.Path = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.DSN = v
	}

	if v := os.Getenv(llmProviderEnv); v != "" {
		c.LLM.Provider = v
	}

	if v := os.Getenv(groqAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

// Validate ensures every credential the pipeline needs is present.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		missing = append(missing, "llm api key ("+groqAPIKeyEnv+" or "+llmAPIKeyEnv+")")
	}
	if strings.TrimSpace(c.Notifications.Telegram.BotToken) == "" {
		missing = append(missing, "telegram bot token ("+telegramTokenEnv+")")
	}
	if strings.TrimSpace(c.Notifications.Telegram.ChatID) == "" {
		missing = append(missing, "telegram channel id ("+telegramChatIDEnv+")")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredential, strings.Join(missing, ", "))
	}
	return nil
}

// DefaultStatePath is where the file dedup store lives unless configured.
func DefaultStatePath() string {
	return filepath.Join(xdg.DataHome, appName, "posted_articles.txt")
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("config: invalid duration %q, using %s", value, fallback)
		return fallback
	}
	return d
}

func defaultConfig() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{Interval: defaultInterval.String()},
		Fetch: FetchConfig{
			Timeout:   defaultFetchTimeout.String(),
			UserAgent: DefaultUserAgent,
		},
		LLM: LLMConfig{
			Provider:    ProviderOpenAI,
			Temperature: 0.5,
			MaxTokens:   512,
			Timeout:     defaultLLMTimeout.String(),
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{
				APIBase: "https://api.telegram.org",
				Timeout: defaultTelegramTimeout.String(),
			},
		},
		Storage: StorageConfig{Driver: "file"},
	}
}
