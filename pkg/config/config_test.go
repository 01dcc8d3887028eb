package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 30*time.Second, cfg.Optimizer.Timeout)
	assert.Equal(t, 12, cfg.Optimizer.MaxSubjects)
	assert.Equal(t, int64(0), cfg.Optimizer.MaxEvaluations)
	assert.Equal(t, "00:00", cfg.Preferences.WindowStart)
	assert.Equal(t, "24:00", cfg.Preferences.WindowEnd)
	assert.Empty(t, cfg.Preferences.AvoidDays)
	assert.False(t, cfg.Auth.Enabled)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("OPTIMIZER_TIMEOUT", "bogus")
	v.Set("OPTIMIZER_MAX_EVALUATIONS", 5000)
	v.Set("PREFERENCES_AVOID_DAYS", " tue, thu ,")
	v.Set("ALLOWED_ORIGINS", "http://localhost:5173")

	cfg := fromViper(v)

	assert.Equal(t, 30*time.Second, cfg.Optimizer.Timeout, "invalid durations fall back")
	assert.Equal(t, int64(5000), cfg.Optimizer.MaxEvaluations)
	assert.Equal(t, []string{"tue", "thu"}, cfg.Preferences.AvoidDays)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}
