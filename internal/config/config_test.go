package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Setenv("DATABASE_USER", "sync")
	t.Setenv("DATABASE_PASSWORD", "segredo")
	t.Setenv("DATABASE_URL", "db:5432/sales")
	t.Setenv("SYNC_CLOSE_GRACE", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SECRET_KEY", "chave")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://sync:segredo@db:5432/sales", cfg.Database.DSN)
	assert.Equal(t, 3*time.Second, cfg.Sync.CloseGrace)
	assert.Equal(t, 25*time.Second, cfg.Sync.HeartbeatInterval)
	assert.Equal(t, 10*time.Minute, cfg.Coordinator.StallTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "chave", cfg.Auth.Secret, "sem AUTH_SECRET o segredo de sessão é o SECRET_KEY")
	assert.Equal(t, "*/10 * * * *", cfg.AutoSync.CronSchedule)
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{App: App{Timezone: "America/Sao_Paulo"}}
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())

	cfg.App.Timezone = "Fuso/Inexistente"
	assert.Equal(t, time.UTC, cfg.Location())
}
