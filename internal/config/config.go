package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Search backend base URLs. The internal URL wins when both are set;
	// the public one exists so deployments without a private network path
	// can still reach the backend.
	SearchInternalBaseURL string `envconfig:"SEARCH_SERVICE_INTERNAL_BASE_URL"`
	SearchPublicBaseURL   string `envconfig:"SEARCH_SERVICE_PUBLIC_BASE_URL"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	GenModel     string `envconfig:"GEN_MODEL" default:"gpt-4o-mini"`
}

const defaultSearchBaseURL = "http://127.0.0.1:8080"

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("COURSEGW", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// SearchBaseURL resolves the search backend base URL: internal, then public,
// then the local default. Trailing slashes are stripped so path joins stay
// predictable.
func (c *Config) SearchBaseURL() string {
	for _, u := range []string{c.SearchInternalBaseURL, c.SearchPublicBaseURL} {
		if u != "" {
			return strings.TrimRight(u, "/")
		}
	}
	return defaultSearchBaseURL
}

func (c *Config) HasGenAI() bool {
	return c.OpenAIAPIKey != ""
}
