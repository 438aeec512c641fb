package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
	EmployeeSeed    string        `mapstructure:"employee_seed"`
	FAQSeed         string        `mapstructure:"faq_seed"`
}

// OpenAIConfig holds configuration for the OpenAI-compatible API used for
// both chat completions and embeddings. BaseURL may point at any
// OpenAI-compatible endpoint (Together, local gateways).
type OpenAIConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	ChatModel      string        `mapstructure:"chat_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	Temperature    float32       `mapstructure:"temperature"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// SMTPConfig holds mail transport configuration. Username and Password may
// be empty, in which case notification sending degrades to simulation mode.
type SMTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	FromAddress  string `mapstructure:"from_address"`
	HREmail      string `mapstructure:"hr_email"`
	FinanceEmail string `mapstructure:"finance_email"`
}

// ChatConfig holds chatbot tuning parameters
type ChatConfig struct {
	FAQThreshold   float64 `mapstructure:"faq_threshold"`
	DefaultSession string  `mapstructure:"default_session"`
}

// RetrievalConfig holds policy-document retrieval configuration
type RetrievalConfig struct {
	CorpusDir    string `mapstructure:"corpus_dir"`
	TopK         int    `mapstructure:"top_k"`
	MaxChunkSize int    `mapstructure:"max_chunk_size"`
}

// StorageConfig holds file storage configuration
type StorageConfig struct {
	UploadDir string `mapstructure:"upload_dir"`
	OutputDir string `mapstructure:"output_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/assistant.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")
	viper.SetDefault("database.employee_seed", "data/employees.json")
	viper.SetDefault("database.faq_seed", "data/faq.json")

	// OpenAI defaults
	viper.SetDefault("openai.chat_model", "gpt-4o-mini")
	viper.SetDefault("openai.embedding_model", "text-embedding-3-small")
	viper.SetDefault("openai.temperature", 0.2)
	viper.SetDefault("openai.max_tokens", 512)
	viper.SetDefault("openai.timeout", 60*time.Second)

	// SMTP defaults
	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)

	// Chat defaults
	viper.SetDefault("chat.faq_threshold", 0.75)
	viper.SetDefault("chat.default_session", "default")

	// Retrieval defaults
	viper.SetDefault("retrieval.corpus_dir", "data/policies")
	viper.SetDefault("retrieval.top_k", 4)
	viper.SetDefault("retrieval.max_chunk_size", 1200)

	// Storage defaults
	viper.SetDefault("storage.upload_dir", "uploads")
	viper.SetDefault("storage.output_dir", "generated_forms")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	viper.BindEnv("smtp.username", "SMTP_USERNAME")
	viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	viper.BindEnv("smtp.from_address", "SMTP_FROM_ADDRESS")
	viper.BindEnv("smtp.hr_email", "HR_EMAIL")
	viper.BindEnv("smtp.finance_email", "FINANCE_EMAIL")
}

// Validate validates the configuration. A missing LLM API key is fatal at
// startup; missing SMTP credentials are allowed and switch the notification
// dispatcher into simulation mode.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}

	if c.SMTP.HREmail == "" {
		return fmt.Errorf("smtp.hr_email is required")
	}
	if c.SMTP.FinanceEmail == "" {
		return fmt.Errorf("smtp.finance_email is required")
	}

	if c.Chat.FAQThreshold < 0 || c.Chat.FAQThreshold > 1 {
		return fmt.Errorf("chat.faq_threshold must be between 0.0 and 1.0")
	}

	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive")
	}

	return nil
}
