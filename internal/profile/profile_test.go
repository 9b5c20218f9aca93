package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	dir := t.TempDir()

	p := &Profile{
		Mode:   "dev",
		Data:   dir,
		Driver: "sqlite",
	}
	err := p.Validate()
	require.NoError(t, err)

	require.Equal(t, 768, p.EmbeddingDim)
	require.Equal(t, 0.1, p.LearningRate)
	require.Equal(t, 500, p.CandidatePool)
	require.Equal(t, filepath.Join(dir, "tastefeed_dev.db"), p.DSN)
}

func TestValidateUnknownModeFallsBackToDemo(t *testing.T) {
	p := &Profile{
		Mode: "staging",
		Data: t.TempDir(),
	}
	err := p.Validate()
	require.NoError(t, err)
	require.Equal(t, "demo", p.Mode)
}

func TestValidateRejectsOutOfRangeLearningRate(t *testing.T) {
	p := &Profile{
		Mode:         "dev",
		Data:         t.TempDir(),
		LearningRate: 1.5,
	}
	err := p.Validate()
	require.NoError(t, err)
	require.Equal(t, 0.1, p.LearningRate)
}

func TestFromEnv(t *testing.T) {
	os.Setenv("TASTEFEED_AI_ENABLED", "true")
	os.Setenv("TASTEFEED_AI_API_KEY", "sk-test")
	defer func() {
		os.Unsetenv("TASTEFEED_AI_ENABLED")
		os.Unsetenv("TASTEFEED_AI_API_KEY")
	}()

	p := &Profile{}
	p.FromEnv()

	require.True(t, p.IsAIEnabled())
	require.Equal(t, "https://api.openai.com/v1", p.AIBaseURL)
	require.Equal(t, "text-embedding-3-small", p.AIEmbeddingModel)
}
