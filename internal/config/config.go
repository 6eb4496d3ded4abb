package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/PabloGalante/helper-kust/internal/domain"
	"github.com/PabloGalante/helper-kust/internal/i18n"
	"github.com/PabloGalante/helper-kust/internal/observability"
)

type LLMBackend string

const (
	LLMBackendGemini LLMBackend = "gemini"
	LLMBackendVertex LLMBackend = "vertex"
	LLMBackendMock   LLMBackend = "mock"
)

type StorageBackend string

const (
	StorageMemory    StorageBackend = "memory"
	StorageSQLite    StorageBackend = "sqlite"
	StorageFirestore StorageBackend = "firestore"
)

type Config struct {
	Port     string
	LogLevel string
	LogFile  string // optional rotating JSON log file
	Language domain.Language

	ModelName  string
	LLMBackend LLMBackend
	APIKey     string // may be empty; the OS keyring is consulted later

	GCPProjectID string
	GCPLocation  string

	StorageBackend StorageBackend
	DataDir        string

	GenerateTimeout time.Duration
}

// DatabasePath is the sqlite file under DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "helperkust.db")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		observability.Logger().Warn("invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// Load reads all env vars and builds the config. It never fails: invalid
// values are replaced by defaults and logged.
func Load() *Config {
	log := observability.Logger()

	cfg := &Config{
		Port:     getEnv("HELPERKUST_PORT", "8080"),
		LogLevel: getEnv("HELPERKUST_LOG_LEVEL", "info"),
		LogFile:  getEnv("HELPERKUST_LOG_FILE", ""),

		ModelName: getEnv("HELPERKUST_MODEL_NAME", "gemini-3-flash-preview"),
		APIKey:    getEnv("HELPERKUST_API_KEY", os.Getenv("GEMINI_API_KEY")),

		GCPProjectID: getEnv("HELPERKUST_GCP_PROJECT", ""),
		GCPLocation:  getEnv("HELPERKUST_GCP_LOCATION", "us-central1"),

		DataDir: getEnv("HELPERKUST_DATA_DIR", filepath.Join(xdg.DataHome, "helperkust")),

		GenerateTimeout: getDurationEnv("HELPERKUST_GENERATE_TIMEOUT", 60*time.Second),
	}

	langStr := getEnv("HELPERKUST_LANGUAGE", "ru")
	lang, ok := i18n.Parse(langStr)
	if !ok {
		log.Warn("unsupported language, using ru", "value", langStr)
		lang = domain.LanguageRussian
	}
	cfg.Language = lang

	switch b := LLMBackend(strings.ToLower(getEnv("HELPERKUST_LLM_BACKEND", "gemini"))); b {
	case LLMBackendGemini, LLMBackendVertex, LLMBackendMock:
		cfg.LLMBackend = b
	default:
		log.Warn("unknown llm backend, using gemini", "value", b)
		cfg.LLMBackend = LLMBackendGemini
	}

	switch s := StorageBackend(strings.ToLower(getEnv("HELPERKUST_STORAGE_BACKEND", "sqlite"))); s {
	case StorageMemory, StorageSQLite, StorageFirestore:
		cfg.StorageBackend = s
	default:
		log.Warn("unknown storage backend, using sqlite", "value", s)
		cfg.StorageBackend = StorageSQLite
	}

	// Firestore needs a project; degrade to local storage rather than exit.
	if cfg.StorageBackend == StorageFirestore && cfg.GCPProjectID == "" {
		log.Warn("HELPERKUST_GCP_PROJECT is not set, using sqlite storage")
		cfg.StorageBackend = StorageSQLite
	}

	return cfg
}
