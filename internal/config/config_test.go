package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, "localhost", cfg.DBHost)
	require.Equal(t, "3306", cfg.DBPort)
	require.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("LISTEN_ADDR", ":9090")

	cfg := Load()
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "5432", cfg.DBPort)
	require.Equal(t, ":9090", cfg.ListenAddr)
}
