package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yoockh/jobwallah/internal/providers/llm"
	"github.com/yoockh/jobwallah/internal/storage"
)

// App holds the non-client settings read from the environment.
type App struct {
	Port    string
	GinMode string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	Storage storage.Config
	LLM     llm.Config

	AnalyzerTimeout time.Duration
	EventWorkers    int
}

func Load() App {
	a := App{
		Port:      getenv("PORT", "8080"),
		GinMode:   os.Getenv("GIN_MODE"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    durationEnv("JWT_TTL", 24*time.Hour),

		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),

		Storage: storage.Config{
			Backend:        getenv("STORAGE_BACKEND", "gcs"),
			GCSBucket:      os.Getenv("GCS_BUCKET"),
			MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinioBucket:    getenv("MINIO_BUCKET", "resumes"),
			MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		},

		LLM: llm.Config{
			Provider:  getenv("LLM_PROVIDER", "vertex"),
			Model:     os.Getenv("LLM_MODEL"),
			ProjectID: os.Getenv("GCP_PROJECT_ID"),
			Location:  getenv("GCP_LOCATION", "us-central1"),
			BaseURL:   os.Getenv("OPENROUTER_BASE_URL"),
		},

		AnalyzerTimeout: durationEnv("ANALYZER_TIMEOUT", 30*time.Second),
		EventWorkers:    intEnv("EVENT_WORKERS", 2),
	}

	switch strings.ToLower(a.LLM.Provider) {
	case "gemini":
		a.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	case "openrouter":
		a.LLM.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	return a
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// durationEnv accepts Go durations ("45s") or plain seconds ("45").
func durationEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func intEnv(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && n > 0 {
		return n
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
