package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	Environment string // ENV: production, development, etc.

	StoreDriver string // sqlite or postgres
	SQLitePath  string
	PostgresURI string
	RedisURI    string // empty disables caching and the Redis rate limiter
	MongoURI    string // empty disables the story archive

	UploadDir     string
	ScratchDir    string // audio being transcribed; never served over HTTP
	MaxUploadSize int64
	FFmpegPath    string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	SpeechModel   string
	SummaryModel  string

	AllowedOrigins      []string
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

// fileValues holds keys read from CONFIG_FILE. Environment variables win over them.
var fileValues = map[string]string{}

// Load reads the configuration from the environment. When CONFIG_FILE points at a
// YAML file its flat key/value pairs fill any variable the environment leaves unset.
func Load() (*Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		values, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		fileValues = values
	}

	maxMB, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "32"), 10, 64)
	if err != nil || maxMB <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB %q", getEnv("MAX_UPLOAD_MB", ""))
	}

	driver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", "sqlite")))
	if driver != "sqlite" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q (want sqlite or postgres)", driver)
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:3000")}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
		StoreDriver:         driver,
		SQLitePath:          getEnv("SQLITE_PATH", "lifestory.db"),
		PostgresURI:         getEnv("POSTGRES_URI", "postgres://localhost:5432/lifestory?sslmode=disable"),
		RedisURI:            getEnv("REDIS_URI", ""),
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "")),
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
		ScratchDir:          getEnv("SCRATCH_DIR", filepath.Join(os.TempDir(), "lifestory-scratch")),
		MaxUploadSize:       maxMB << 20,
		FFmpegPath:          getEnv("FFMPEG_PATH", "ffmpeg"),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
		SpeechModel:         getEnv("SPEECH_MODEL", "whisper-1"),
		SummaryModel:        getEnv("SUMMARY_MODEL", "gpt-4o-mini"),
		AllowedOrigins:      allowedOrigins,
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}, nil
}

func readConfigFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return values, nil
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CloudinaryEnabled reports whether all three Cloudinary credentials are present.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value, ok := fileValues[key]; ok && value != "" {
		return value
	}
	return defaultValue
}
