package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port           int           `yaml:"port" default:"8080"`
		Host           string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout    time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout   time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout    time.Duration `yaml:"idle_timeout" default:"60s"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"15s"`
		RateLimit      float64       `yaml:"rate_limit" default:"20"` // requests per second per client, 0 disables
		EnableGRPC     bool          `yaml:"enable_grpc" default:"true"`
	} `yaml:"server"`

	Research struct {
		RecencyWindow       time.Duration `yaml:"recency_window" default:"360h"`
		PromptSampleSize    int           `yaml:"prompt_sample_size" default:"10"`
		RecommendationCount int           `yaml:"recommendation_count" default:"5"`
		DefaultMaxResults   int           `yaml:"default_max_results" default:"50"`
		MaxResultsCap       int           `yaml:"max_results_cap" default:"100"`
		InsightDisplayCount int           `yaml:"insight_display_count" default:"5"`
		Retention           time.Duration `yaml:"retention" default:"0s"`
		CleanupSchedule     string        `yaml:"cleanup_schedule" default:"@every 1h"`
	} `yaml:"research"`

	Search struct {
		Provider    string        `yaml:"provider" default:"serpapi"`
		APIKey      string        `yaml:"api_key"`
		BaseURL     string        `yaml:"base_url" default:"https://serpapi.com/search.json"`
		Engine      string        `yaml:"engine" default:"google_jobs"`
		Timeout     time.Duration `yaml:"timeout" default:"30s"`
		PageSize    int           `yaml:"page_size" default:"10"`
		MaxPages    int           `yaml:"max_pages" default:"5"`
		MaxRetries  int           `yaml:"max_retries" default:"2"`
		SkillTerms  int           `yaml:"skill_terms" default:"3"`
		CountryCode string        `yaml:"country_code" default:"us"`
		Language    string        `yaml:"language" default:"en"`

		// Circuit breaker around the provider
		BreakerFailures int           `yaml:"breaker_failures" default:"5"`
		BreakerReset    time.Duration `yaml:"breaker_reset" default:"30s"`
	} `yaml:"search"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"claude"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"claude-3-haiku-20240307"`
		BaseURL     string        `yaml:"base_url"`
		MaxTokens   int           `yaml:"max_tokens" default:"1024"`
		Temperature float32       `yaml:"temperature" default:"0.7"`
		Timeout     time.Duration `yaml:"timeout" default:"30s"`
		Referer     string        `yaml:"referer"`
		AppTitle    string        `yaml:"app_title" default:"job-research"`
	} `yaml:"llm"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		Enabled  bool          `yaml:"enabled" default:"false"`
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
		Channel  string        `yaml:"channel" default:"research:completed"`
	} `yaml:"redis"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// Default returns a configuration populated with built-in defaults only
func Default() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.RequestTimeout = 15 * time.Second
	config.Server.RateLimit = 20
	config.Server.EnableGRPC = true

	config.Research.RecencyWindow = 15 * 24 * time.Hour
	config.Research.PromptSampleSize = 10
	config.Research.RecommendationCount = 5
	config.Research.DefaultMaxResults = 50
	config.Research.MaxResultsCap = 100
	config.Research.InsightDisplayCount = 5
	config.Research.CleanupSchedule = "@every 1h"

	config.Search.Provider = "serpapi"
	config.Search.BaseURL = "https://serpapi.com/search.json"
	config.Search.Engine = "google_jobs"
	config.Search.Timeout = 30 * time.Second
	config.Search.PageSize = 10
	config.Search.MaxPages = 5
	config.Search.MaxRetries = 2
	config.Search.SkillTerms = 3
	config.Search.CountryCode = "us"
	config.Search.Language = "en"
	config.Search.BreakerFailures = 5
	config.Search.BreakerReset = 30 * time.Second

	config.LLM.Provider = "claude"
	config.LLM.Model = "claude-3-haiku-20240307"
	config.LLM.MaxTokens = 1024
	config.LLM.Temperature = 0.7
	config.LLM.Timeout = 30 * time.Second
	config.LLM.AppTitle = "job-research"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.Timeout = 5 * time.Second
	config.Redis.Channel = "research:completed"

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if rateLimit := os.Getenv("RATE_LIMIT"); rateLimit != "" {
		if rl, err := strconv.ParseFloat(rateLimit, 64); err == nil {
			c.Server.RateLimit = rl
		}
	}

	if apiKey := os.Getenv("SERPAPI_API_KEY"); apiKey != "" {
		c.Search.APIKey = apiKey
	}

	// Also support SERPAPI_KEY for compatibility
	if apiKey := os.Getenv("SERPAPI_KEY"); apiKey != "" && c.Search.APIKey == "" {
		c.Search.APIKey = apiKey
	}

	if searchTimeout := os.Getenv("SEARCH_TIMEOUT"); searchTimeout != "" {
		if timeout, err := time.ParseDuration(searchTimeout); err == nil {
			c.Search.Timeout = timeout
		}
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if apiKey := os.Getenv("OPENROUTER_API_KEY"); apiKey != "" && c.LLM.Provider == "openrouter" {
		c.LLM.APIKey = apiKey
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if llmTimeout := os.Getenv("LLM_TIMEOUT"); llmTimeout != "" {
		if timeout, err := time.ParseDuration(llmTimeout); err == nil {
			c.LLM.Timeout = timeout
		}
	}

	if window := os.Getenv("RESEARCH_RECENCY_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil {
			c.Research.RecencyWindow = d
		}
	}

	if retention := os.Getenv("RESEARCH_RETENTION"); retention != "" {
		if d, err := time.ParseDuration(retention); err == nil {
			c.Research.Retention = d
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled != "" {
		c.Redis.Enabled = redisEnabled == "true" || redisEnabled == "1"
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if channel := os.Getenv("REDIS_CHANNEL"); channel != "" {
		c.Redis.Channel = channel
	}

	c.loadLoggingAdapterEnvVars()
}

// loadLoggingAdapterEnvVars loads environment variables for logging adapters
func (c *Config) loadLoggingAdapterEnvVars() {
	for i := range c.Logging.Adapters {
		adapter := &c.Logging.Adapters[i]

		switch adapter.Type {
		case "file":
			if path := os.Getenv("LOG_FILE_PATH"); path != "" {
				if adapter.Options == nil {
					adapter.Options = make(map[string]interface{})
				}
				adapter.Options["file_path"] = path
			}

			if enabled := os.Getenv("LOG_FILE_ENABLED"); enabled != "" {
				adapter.Enabled = enabled == "true" || enabled == "1"
			}
		}
	}
}
