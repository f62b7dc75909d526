package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "session_key: test-secret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Listen)
	assert.Equal(t, 86400, cfg.SessionMaxAge)
	assert.Equal(t, "./data/vazby.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Email.Enabled)
	assert.Equal(t, "0 8 * * *", cfg.Digest.Schedule)
	assert.False(t, cfg.DigestEnabled())
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "session_key: from-file\n")
	t.Setenv("VAZBY_SESSION_KEY", "from-env")
	t.Setenv("VAZBY_DATABASE_PATH", "/tmp/other.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.SessionKey)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
}

func TestLoad_Sanitize(t *testing.T) {
	path := writeConfig(t, `
session_key: test-secret
server_url: " https://links.example.com/ "
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://links.example.com", cfg.ServerURL)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing session key",
			content: "listen: 127.0.0.1:9000\n",
			wantErr: "session key is required",
		},
		{
			name:    "bcrypt cost out of range",
			content: "session_key: x\nauth:\n  bcrypt_cost: 2\n",
			wantErr: "bcrypt cost",
		},
		{
			name:    "email without host",
			content: "session_key: x\nemail:\n  enabled: true\n  from_email: a@example.com\n",
			wantErr: "SMTP host is required",
		},
		{
			name:    "invalid digest schedule",
			content: "session_key: x\ndigest:\n  enabled: true\n  schedule: \"@daily\"\n",
			wantErr: "digest schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDigestEnabled(t *testing.T) {
	cfg := &Config{
		Digest: &DigestConfig{Enabled: true, Schedule: "0 8 * * *"},
		Email:  &EmailConfig{Enabled: false},
	}
	assert.False(t, cfg.DigestEnabled())

	cfg.Email.Enabled = true
	assert.True(t, cfg.DigestEnabled())
}
