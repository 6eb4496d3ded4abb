package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/PabloGalante/helper-kust/internal/config"
	"github.com/PabloGalante/helper-kust/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HELPERKUST_PORT", "HELPERKUST_LOG_LEVEL", "HELPERKUST_LANGUAGE",
		"HELPERKUST_MODEL_NAME", "HELPERKUST_LLM_BACKEND", "HELPERKUST_API_KEY", "GEMINI_API_KEY",
		"HELPERKUST_GCP_PROJECT", "HELPERKUST_GCP_LOCATION", "HELPERKUST_STORAGE_BACKEND",
		"HELPERKUST_DATA_DIR", "HELPERKUST_GENERATE_TIMEOUT", "HELPERKUST_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg := config.Load()

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Language != domain.LanguageRussian {
		t.Errorf("expected ru, got %q", cfg.Language)
	}
	if cfg.ModelName != "gemini-3-flash-preview" {
		t.Errorf("unexpected model %q", cfg.ModelName)
	}
	if cfg.LLMBackend != config.LLMBackendGemini {
		t.Errorf("expected gemini backend, got %q", cfg.LLMBackend)
	}
	if cfg.StorageBackend != config.StorageSQLite {
		t.Errorf("expected sqlite storage, got %q", cfg.StorageBackend)
	}
	if cfg.GenerateTimeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", cfg.GenerateTimeout)
	}
	if cfg.GCPLocation != "us-central1" {
		t.Errorf("unexpected location %q", cfg.GCPLocation)
	}
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HELPERKUST_PORT", "9090")
	t.Setenv("HELPERKUST_LANGUAGE", "es-AR")
	t.Setenv("HELPERKUST_LLM_BACKEND", "MOCK")
	t.Setenv("HELPERKUST_STORAGE_BACKEND", "memory")
	t.Setenv("HELPERKUST_DATA_DIR", "/tmp/hk")
	t.Setenv("HELPERKUST_GENERATE_TIMEOUT", "5s")
	t.Setenv("GEMINI_API_KEY", "from-gemini-var")

	cfg := config.Load()

	if cfg.Port != "9090" || cfg.Language != domain.LanguageSpanish {
		t.Errorf("unexpected port/language: %q %q", cfg.Port, cfg.Language)
	}
	if cfg.LLMBackend != config.LLMBackendMock || cfg.StorageBackend != config.StorageMemory {
		t.Errorf("unexpected backends: %q %q", cfg.LLMBackend, cfg.StorageBackend)
	}
	if cfg.GenerateTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %v", cfg.GenerateTimeout)
	}
	if cfg.APIKey != "from-gemini-var" {
		t.Errorf("expected GEMINI_API_KEY fallback, got %q", cfg.APIKey)
	}
	if cfg.DatabasePath() != filepath.Join("/tmp/hk", "helperkust.db") {
		t.Errorf("unexpected database path %q", cfg.DatabasePath())
	}

	t.Setenv("HELPERKUST_API_KEY", "explicit")
	if got := config.Load().APIKey; got != "explicit" {
		t.Errorf("HELPERKUST_API_KEY must win, got %q", got)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HELPERKUST_LANGUAGE", "fr")
	t.Setenv("HELPERKUST_LLM_BACKEND", "openai")
	t.Setenv("HELPERKUST_STORAGE_BACKEND", "firestore")
	t.Setenv("HELPERKUST_GENERATE_TIMEOUT", "soon")

	cfg := config.Load()

	if cfg.Language != domain.LanguageRussian {
		t.Errorf("expected ru, got %q", cfg.Language)
	}
	if cfg.LLMBackend != config.LLMBackendGemini {
		t.Errorf("expected gemini, got %q", cfg.LLMBackend)
	}
	if cfg.StorageBackend != config.StorageSQLite {
		t.Errorf("firestore without a project must fall back to sqlite, got %q", cfg.StorageBackend)
	}
	if cfg.GenerateTimeout != 60*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.GenerateTimeout)
	}
}
