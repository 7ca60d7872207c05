package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig marks validation failures.
var ErrInvalidConfig = errors.New("invalid config")

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		WriteTimeout    time.Duration `yaml:"writeTimeout"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
		MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
		CORSOrigins     []string      `yaml:"corsOrigins"`
		// APIKeys maps a client name to its key; empty disables auth.
		APIKeys   map[string]string `yaml:"apiKeys"`
		RateLimit struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Inference struct {
		Provider       string        `yaml:"provider"`
		BaseURL        string        `yaml:"baseURL"`
		APIKey         string        `yaml:"apiKey"`
		Model          string        `yaml:"model"`
		Timeout        time.Duration `yaml:"timeout"`
		Concurrency    int           `yaml:"concurrency"`
		StrictResponse bool          `yaml:"strictResponse"`
	} `yaml:"inference"`

	Keywords struct {
		NgramMin  int    `yaml:"ngramMin"`
		NgramMax  int    `yaml:"ngramMax"`
		Stopwords string `yaml:"stopwords"`
		TopN      int    `yaml:"topN"`
	} `yaml:"keywords"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.Server.Port = 8000
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 60 * time.Second
	c.Server.ShutdownTimeout = 5 * time.Second
	c.Server.MaxBodyBytes = 1 << 20
	c.Server.RateLimit.RPS = 5
	c.Server.RateLimit.Burst = 10

	c.Inference.Provider = ProviderOllama
	c.Inference.BaseURL = "http://localhost:11434"
	c.Inference.Model = "mistral:latest"
	c.Inference.Timeout = 10 * time.Second
	c.Inference.Concurrency = 2
	c.Inference.StrictResponse = true

	c.Keywords.NgramMin = 1
	c.Keywords.NgramMax = 2
	c.Keywords.Stopwords = "english"
	c.Keywords.TopN = 5

	c.Log.Level = "info"
	return &c
}

// Load reads the YAML file over the defaults, applies environment overrides
// and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TEXTLENS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: TEXTLENS_PORT: %v", ErrInvalidConfig, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		c.Inference.BaseURL = v
	}
	if v := os.Getenv("TEXTLENS_PROVIDER"); v != "" {
		c.Inference.Provider = v
	}
	if v := os.Getenv("TEXTLENS_MODEL"); v != "" {
		c.Inference.Model = v
	}
	if v := os.Getenv("TEXTLENS_API_KEY"); v != "" {
		c.Inference.APIKey = v
	}
	if v := os.Getenv("INFERENCE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: INFERENCE_TIMEOUT: %v", ErrInvalidConfig, err)
		}
		c.Inference.Timeout = d
	}
	if v := os.Getenv("TEXTLENS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	switch strings.ToLower(c.Inference.Provider) {
	case ProviderOllama, ProviderOpenAI:
		c.Inference.Provider = strings.ToLower(c.Inference.Provider)
	default:
		problems = append(problems, fmt.Sprintf("inference.provider %q must be %q or %q", c.Inference.Provider, ProviderOllama, ProviderOpenAI))
	}
	if strings.TrimSpace(c.Inference.BaseURL) == "" {
		problems = append(problems, "inference.baseURL is required")
	}
	if strings.TrimSpace(c.Inference.Model) == "" {
		problems = append(problems, "inference.model is required")
	}
	if c.Inference.Timeout <= 0 {
		problems = append(problems, "inference.timeout must be positive")
	}
	if c.Inference.Concurrency <= 0 {
		problems = append(problems, "inference.concurrency must be positive")
	}
	if c.Keywords.NgramMin < 1 || c.Keywords.NgramMax < c.Keywords.NgramMin {
		problems = append(problems, fmt.Sprintf("keywords ngram range (%d, %d) is invalid", c.Keywords.NgramMin, c.Keywords.NgramMax))
	}
	switch c.Keywords.Stopwords {
	case "english", "none":
	default:
		problems = append(problems, fmt.Sprintf("keywords.stopwords %q must be english or none", c.Keywords.Stopwords))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
