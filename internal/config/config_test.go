package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("CLERK_JWKS_URL", "https://example.clerk.accounts.dev/.well-known/jwks.json")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, 90*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, "https://example.clerk.accounts.dev/.well-known/jwks.json", cfg.JWKSURL)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 500, cfg.MaxTokens)
	assert.Equal(t, 50, cfg.RPS)
}

func TestLoad_MissingSecretsIsNotAnError(t *testing.T) {
	// Сервис должен стартовать и без Clerk/OpenAI: зависимые операции
	// откажут на этапе запроса, а не при загрузке конфигурации.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.JWKSURL)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_FromFile(t *testing.T) {
	content := `
env: prod
http_server:
  address: ":9090"
openai:
  model: gpt-4o
redis_connection:
  addr: "localhost:6379"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "localhost:6379", cfg.RedisConnection.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}
