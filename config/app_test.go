package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "JWT_TTL", "CORS_ORIGINS", "STORAGE_BACKEND", "LLM_PROVIDER", "ANALYZER_TIMEOUT", "EVENT_WORKERS"} {
		t.Setenv(k, "")
	}
	a := Load()
	assert.Equal(t, "8080", a.Port)
	assert.Equal(t, 24*time.Hour, a.JWTTTL)
	assert.Nil(t, a.CORSOrigins)
	assert.Equal(t, "gcs", a.Storage.Backend)
	assert.Equal(t, "vertex", a.LLM.Provider)
	assert.Equal(t, 30*time.Second, a.AnalyzerTimeout)
	assert.Equal(t, 2, a.EventWorkers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("ANALYZER_TIMEOUT", "45")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LLM_PROVIDER", "openrouter")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("EVENT_WORKERS", "zero")

	a := Load()
	assert.Equal(t, 2*time.Hour, a.JWTTTL)
	assert.Equal(t, 45*time.Second, a.AnalyzerTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, a.CORSOrigins)
	assert.Equal(t, "or-key", a.LLM.APIKey)
	assert.Equal(t, 2, a.EventWorkers)
}
