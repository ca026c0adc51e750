package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"REALTY_DB", "REALTY_SECRET_KEY", "REALTY_DEV_MODE",
	"REALTY_SMTP_HOST", "REALTY_SMTP_PORT", "REALTY_SMTP_USER", "REALTY_SMTP_PASS", "REALTY_SMTP_FROM",
	"REALTY_ADMIN_NAME", "REALTY_ADMIN_SURNAME", "REALTY_ADMIN_EMAIL",
	"REALTY_ADMIN_PHONE", "REALTY_ADMIN_ADDRESS", "REALTY_ADMIN_PASSWORD",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.Empty(t, cfg.SecretKey)
	assert.False(t, cfg.DevMode)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `db_path: /tmp/realty.db
secret_key: from-file
dev_mode: true
smtp:
  host: smtp.example.com
  port: "465"
  from: noreply@example.com
admin:
  name: Ada
  surname: Admin
  email: admin@example.com
  password: s3cret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/realty.db", cfg.DBPath)
	assert.Equal(t, "from-file", cfg.SecretKey)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, "465", cfg.SMTP.Port)
	assert.Equal(t, "noreply@example.com", cfg.SMTP.From)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.Equal(t, "s3cret", cfg.Admin.Password)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("secret_key: from-file\ndev_mode: true\n"), 0o600))

	t.Setenv("REALTY_SECRET_KEY", "from-env")
	t.Setenv("REALTY_DEV_MODE", "false")
	t.Setenv("REALTY_ADMIN_EMAIL", "boss@example.com")
	t.Setenv("REALTY_SMTP_PORT", "2525")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "boss@example.com", cfg.Admin.Email)
	assert.Equal(t, "2525", cfg.SMTP.Port)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("smtp: [not, a, map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"secret set", Config{SecretKey: "k"}, false},
		{"dev mode without secret", Config{DevMode: true}, false},
		{"missing secret", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingSecret)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSigningKey(t *testing.T) {
	assert.Equal(t, "k", Config{SecretKey: "k", DevMode: true}.SigningKey())
	assert.Equal(t, devSecretKey, Config{DevMode: true}.SigningKey())
	assert.Empty(t, Config{}.SigningKey())
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Config{DBPath: "/data/realty.db", SecretKey: "k", SMTP: SMTP{Host: "mail", Port: "587"}}
	require.NoError(t, Save(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, "realty", filepath.Base(filepath.Dir(path)))
}
