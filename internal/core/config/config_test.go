package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestRead_DefaultsAndOverrides(t *testing.T) {
	p := writeConfig(t, `
jwt:
  secret: file-secret
db:
  driver: sqlite
  dsn: "file::memory:"
bootstrap:
  superadmin_email: root@example.com
`)
	t.Setenv("APP_JWT_SECRET", "env-secret")

	c, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", c.JWT.Secret)
	assert.Equal(t, 30*time.Minute, c.JWT.TTL())
	assert.Equal(t, "account-service", c.JWT.Issuer)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, 10, c.Security.BcryptCost)
	assert.Equal(t, "root@example.com", c.Bootstrap.SuperadminEmail)
	assert.Equal(t, "Super", c.Bootstrap.SuperadminName)
}

func TestRead_RequiresSecret(t *testing.T) {
	p := writeConfig(t, "db:\n  driver: sqlite\n")
	_, err := Read(p)
	assert.Error(t, err)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
