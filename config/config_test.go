package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "test")

	cfg := LoadConfig()

	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.Database.UseSSL)
	assert.Equal(t, "none", cfg.Storage.Backend)
	assert.Equal(t, "promag.changes", cfg.Events.Channel)
}

func TestLoadConfigDatabaseURLImpliesSSL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db.example.com/promag")

	cfg := LoadConfig()

	assert.Equal(t, "postgres://u:p@db.example.com/promag", cfg.Database.URL)
	assert.True(t, cfg.Database.UseSSL)
}

func TestGetEnvBool(t *testing.T) {
	cases := map[string]bool{
		"1":     true,
		"true":  true,
		"YES":   true,
		" on ":  true,
		"0":     false,
		"false": false,
		"nope":  false,
	}
	for raw, want := range cases {
		t.Setenv("PROMAG_TEST_BOOL", raw)
		assert.Equal(t, want, getEnvBool("PROMAG_TEST_BOOL", !want), raw)
	}
	assert.True(t, getEnvBool("PROMAG_TEST_BOOL_UNSET", true))
}

func TestGetEnvIntFallsBackToPort(t *testing.T) {
	t.Setenv("PORT", "5055")

	cfg := LoadConfig()

	assert.Equal(t, 5055, cfg.ServerPort)
}
