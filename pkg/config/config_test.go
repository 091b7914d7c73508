package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	// Viper ignora variables vacías: equivalen a no definidas.
	for _, k := range []string{"STORAGE", "PORT", "SESSION_SECRET", "AUTH_USERNAME", "AUTH_PASSWORD", "AUTH_PASSWORD_HASH", "ORG_NAME"} {
		t.Setenv(k, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoragePostgres, cfg.App.Storage)
	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.Equal(t, "dev-secret-key", cfg.Session.Secret)
	assert.Equal(t, 480, cfg.Session.TTLMinutes)
	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.Equal(t, "JIQUIAGROPECUÁRIA", cfg.Org.Name)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("PORT", "8081")
	t.Setenv("SESSION_SECRET", "s3cr3t")
	t.Setenv("AUTH_USERNAME", "operador")
	t.Setenv("AUTH_PASSWORD", "clave")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.App.Storage)
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8081", cfg.HTTP.Addr())
	assert.Equal(t, "s3cr3t", cfg.Session.Secret)
	assert.Equal(t, "operador", cfg.Auth.Username)
	assert.Equal(t, "clave", cfg.Auth.Password)
}

func TestLoad_PortInvalidoUsaDefault(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("PORT", "no-es-numero")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.HTTP.Port)
}

func TestLoad_StorageDesconocido(t *testing.T) {
	t.Setenv("STORAGE", "sqlite")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/word", DBName: "estoque", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/estoque?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
