package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Presupuestos-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("QUOTE_DEFAULT_VALIDITY_DAYS", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "P", cfg.Quote.NumberPrefix)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_DesdeVariablesDeEntorno(t *testing.T) {
	t.Setenv("QUOTE_DEFAULT_VALIDITY_DAYS", "30")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("COMPANY_ID", "company-1")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Quote.DefaultValidityDays)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "company-1", cfg.Quote.DefaultCompanyID)
}

func TestLoad_ValidezNegativa(t *testing.T) {
	t.Setenv("QUOTE_DEFAULT_VALIDITY_DAYS", "-1")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "presupuestos", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/presupuestos?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
