package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App    AppConfig    `toml:"app"`
	Gemini GeminiConfig `toml:"gemini"`
	Chroma ChromaConfig `toml:"chroma"`
	Ingest IngestConfig `toml:"ingest"`
	Query  QueryConfig  `toml:"query"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
	DataDir string `toml:"data_dir"`
}

type GeminiConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
}

type ChromaConfig struct {
	BaseURL        string `toml:"base_url"`
	Collection     string `toml:"collection"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type IngestConfig struct {
	ChunkSize      int   `toml:"chunk_size"`
	ChunkOverlap   int   `toml:"chunk_overlap"`
	MaxUploadBytes int64 `toml:"max_upload_bytes"`
}

type QueryConfig struct {
	PromptTemplate string `toml:"prompt_template"`
	DefaultTopK    int    `toml:"default_top_k"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)

	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "docmind",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
			DataDir: "data",
		},
		Gemini: GeminiConfig{
			BaseURL:        "https://generativelanguage.googleapis.com",
			APIKey:         "",
			Model:          "gemini-2.0-flash",
			EmbeddingModel: "text-embedding-004",
		},
		Chroma: ChromaConfig{
			BaseURL:        "http://127.0.0.1:8000",
			Collection:     "documents",
			TimeoutSeconds: 15,
		},
		Ingest: IngestConfig{
			ChunkSize:      1000,
			ChunkOverlap:   200,
			MaxUploadBytes: 10 << 20,
		},
		Query: QueryConfig{
			PromptTemplate: "prompts/base_prompt.txt",
			DefaultTopK:    3,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.DataDir = getEnv("APP_DATA_DIR", cfg.App.DataDir)

	cfg.Gemini.BaseURL = getEnv("GEMINI_BASE_URL", cfg.Gemini.BaseURL)
	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.Model = getEnv("MODEL_NAME", cfg.Gemini.Model)
	cfg.Gemini.EmbeddingModel = getEnv("EMBEDDING_MODEL_NAME", cfg.Gemini.EmbeddingModel)

	cfg.Chroma.BaseURL = getEnv("CHROMA_URL", cfg.Chroma.BaseURL)
	cfg.Chroma.Collection = getEnv("CHROMA_COLLECTION", cfg.Chroma.Collection)
	cfg.Chroma.TimeoutSeconds = getEnvAsInt("CHROMA_TIMEOUT_SECONDS", cfg.Chroma.TimeoutSeconds)

	cfg.Ingest.ChunkSize = getEnvAsInt("CHUNK_SIZE", cfg.Ingest.ChunkSize)
	cfg.Ingest.ChunkOverlap = getEnvAsInt("CHUNK_OVERLAP", cfg.Ingest.ChunkOverlap)
	cfg.Ingest.MaxUploadBytes = getEnvAsInt64("MAX_UPLOAD_BYTES", cfg.Ingest.MaxUploadBytes)

	cfg.Query.PromptTemplate = getEnv("PROMPT_TEMPLATE_PATH", cfg.Query.PromptTemplate)
	cfg.Query.DefaultTopK = getEnvAsInt("QUERY_TOP_K", cfg.Query.DefaultTopK)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsInt64(key string, fallback int64) int64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
