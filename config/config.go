package config

import (
	"fmt"
	"time"

	"ewintr.nl/ytideas/fetch"
	"ewintr.nl/ytideas/storage"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	YoutubeAPIKey            string        `env:"YOUTUBE_API_KEY"`
	YoutubeEndpoint          string        `env:"YOUTUBE_ENDPOINT"`
	YoutubeTimeout           time.Duration `env:"YOUTUBE_TIMEOUT" envDefault:"10s"`
	YoutubeRequestsPerSecond float64       `env:"YOUTUBE_RPS" envDefault:"0"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	AgentsFile    string `env:"AGENTS_FILE"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"ytideas"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"ytideas"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"ytideas"`

	MinifluxEndpoint string `env:"MINIFLUX_ENDPOINT" envDefault:"http://localhost/v1"`
	MinifluxAPIKey   string `env:"MINIFLUX_APIKEY"`

	// Ideas are only stored in Weaviate when a host is set.
	WeaviateScheme string `env:"WEAVIATE_SCHEME" envDefault:"https"`
	WeaviateHost   string `env:"WEAVIATE_HOST"`
	WeaviateAPIKey string `env:"WEAVIATE_APIKEY"`

	FetchInterval   time.Duration `env:"FETCH_INTERVAL" envDefault:"1m"`
	MaxComments     int64         `env:"MAX_COMMENTS" envDefault:"20"`
	ResearchResults int64         `env:"RESEARCH_RESULTS" envDefault:"3"`
	APIPort         int           `env:"API_PORT" envDefault:"8080"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if cfg.MaxComments < 1 {
		return nil, fmt.Errorf("MAX_COMMENTS must be positive, got %d", cfg.MaxComments)
	}
	if cfg.FetchInterval <= 0 {
		return nil, fmt.Errorf("FETCH_INTERVAL must be positive, got %s", cfg.FetchInterval)
	}

	return cfg, nil
}

func (c *Config) Youtube() fetch.YoutubeInfo {
	return fetch.YoutubeInfo{
		APIKey:            c.YoutubeAPIKey,
		Endpoint:          c.YoutubeEndpoint,
		Timeout:           c.YoutubeTimeout,
		RequestsPerSecond: c.YoutubeRequestsPerSecond,
	}
}

func (c *Config) Postgres() storage.PostgresInfo {
	return storage.PostgresInfo{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		Database: c.PostgresDB,
	}
}

func (c *Config) Miniflux() fetch.MinifluxInfo {
	return fetch.MinifluxInfo{
		Endpoint: c.MinifluxEndpoint,
		ApiKey:   c.MinifluxAPIKey,
	}
}

func (c *Config) Weaviate() storage.WeaviateInfo {
	return storage.WeaviateInfo{
		Scheme:       c.WeaviateScheme,
		Host:         c.WeaviateHost,
		APIKey:       c.WeaviateAPIKey,
		OpenAIAPIKey: c.OpenAIAPIKey,
	}
}
