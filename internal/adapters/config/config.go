package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"ideascope/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	AI            AIConfig
	Agents        AgentsConfig
	DataSource    DataSourceConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"ideascope"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type HTTPConfig struct {
	Port int `envconfig:"HTTP_PORT" default:"8080"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"ideascope"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Database string `envconfig:"POSTGRES_DB" default:"ideascope"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`

	// Budget for the database tier of the read-through chain. Past this the
	// orchestrator generates a fresh report instead.
	FetchTimeout time.Duration `envconfig:"POSTGRES_FETCH_TIMEOUT" default:"3s"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
}

type AIConfig struct {
	OpenAIKey       string        `envconfig:"OPENAI_API_KEY"`
	ClaudeKey       string        `envconfig:"CLAUDE_API_KEY"`
	DeepSeekKey     string        `envconfig:"DEEPSEEK_API_KEY"`
	DefaultProvider string        `envconfig:"DEFAULT_AI_PROVIDER" default:"openai"`
	Model           string        `envconfig:"AI_MODEL" default:"gpt-4o"`
	RequestTimeout  time.Duration `envconfig:"AI_REQUEST_TIMEOUT" default:"30s"`
	RequestsPerMin  float64       `envconfig:"AI_REQUESTS_PER_MINUTE" default:"300"`
}

// AgentsConfig controls agent execution behavior
type AgentsConfig struct {
	MarketResearchEnabled    bool `envconfig:"AGENT_MARKET_RESEARCH_ENABLED" default:"true"`
	FinancialModelingEnabled bool `envconfig:"AGENT_FINANCIAL_MODELING_ENABLED" default:"true"`
	FounderFitEnabled        bool `envconfig:"AGENT_FOUNDER_FIT_ENABLED" default:"true"`
	RiskAssessmentEnabled    bool `envconfig:"AGENT_RISK_ASSESSMENT_ENABLED" default:"true"`

	AnalysisDepth    string        `envconfig:"AGENT_ANALYSIS_DEPTH" default:"standard"`
	ExecutionTimeout time.Duration `envconfig:"AGENT_EXECUTION_TIMEOUT" default:"2m"`
	MaxTokens        int           `envconfig:"AGENT_MAX_TOKENS" default:"4096"`
	CacheTTL         time.Duration `envconfig:"AGENT_CACHE_TTL" default:"1h"`
	CacheEnabled     bool          `envconfig:"AGENT_CACHE_ENABLED" default:"true"`
}

// Enabled returns the set of agent names enabled by configuration
func (c AgentsConfig) Enabled() []string {
	names := make([]string, 0, 4)
	if c.MarketResearchEnabled {
		names = append(names, "market_research")
	}
	if c.FinancialModelingEnabled {
		names = append(names, "financial_modeling")
	}
	if c.FounderFitEnabled {
		names = append(names, "founder_fit")
	}
	if c.RiskAssessmentEnabled {
		names = append(names, "risk_assessment")
	}
	return names
}

type DataSourceConfig struct {
	Enabled bool          `envconfig:"DATA_SOURCE_ENABLED" default:"false"`
	BaseURL string        `envconfig:"DATA_SOURCE_BASE_URL"`
	APIKey  string        `envconfig:"DATA_SOURCE_API_KEY"`
	Timeout time.Duration `envconfig:"DATA_SOURCE_TIMEOUT" default:"5s"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
