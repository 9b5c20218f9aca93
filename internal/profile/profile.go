package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where tastefeed stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// Embedding provider configuration
	AIEnabled        bool   // TASTEFEED_AI_ENABLED
	AIBaseURL        string // TASTEFEED_AI_BASE_URL (default: https://api.openai.com/v1)
	AIAPIKey         string // TASTEFEED_AI_API_KEY
	AIEmbeddingModel string // TASTEFEED_AI_EMBEDDING_MODEL (default: text-embedding-3-small)

	// Recommendation engine tunables
	EmbeddingDim  int     // TASTEFEED_EMBEDDING_DIM (default: 768)
	LearningRate  float64 // TASTEFEED_LEARNING_RATE (default: 0.1), must be in (0,1)
	CandidatePool int     // TASTEFEED_CANDIDATE_POOL (default: 500)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if the embedding provider is enabled and configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from TASTEFEED_* environment variables.
func (p *Profile) FromEnv() {
	p.AIEnabled = os.Getenv("TASTEFEED_AI_ENABLED") == "true"
	p.AIBaseURL = getEnvOrDefault("TASTEFEED_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIAPIKey = os.Getenv("TASTEFEED_AI_API_KEY")
	p.AIEmbeddingModel = getEnvOrDefault("TASTEFEED_AI_EMBEDDING_MODEL", "text-embedding-3-small")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.EmbeddingDim <= 0 {
		p.EmbeddingDim = 768
	}
	if p.LearningRate <= 0 || p.LearningRate >= 1 {
		p.LearningRate = 0.1
	}
	if p.CandidatePool <= 0 {
		p.CandidatePool = 500
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "tastefeed")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/tastefeed"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("tastefeed_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
