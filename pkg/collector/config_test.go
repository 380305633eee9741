package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/models"
)

func TestValidateFillsDefaults(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, models.Duration(5*time.Second), cfg.ScanTimeout)
	assert.Equal(t, models.Duration(10*time.Second), cfg.ConnectTimeout)
	assert.Equal(t, models.Duration(5*time.Second), cfg.ReconnectTimeout)
	assert.Equal(t, 3, cfg.ConnectRetries)
	assert.Equal(t, models.Duration(2*time.Second), cfg.RetryDelay)
	assert.Equal(t, models.Duration(500*time.Millisecond), cfg.PollInterval)
	assert.Equal(t, "badge_data", cfg.OutputDir)
}

func TestValidateKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		ScanTimeout:    models.Duration(time.Second),
		ConnectRetries: 5,
		OutputDir:      "/var/lib/badges",
	}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, models.Duration(time.Second), cfg.ScanTimeout)
	assert.Equal(t, 5, cfg.ConnectRetries)
	assert.Equal(t, "/var/lib/badges", cfg.OutputDir)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"negative retries", &Config{ConnectRetries: -1}},
		{"negative connect timeout", &Config{ConnectTimeout: models.Duration(-time.Second)}},
		{"negative retry delay", &Config{RetryDelay: models.Duration(-time.Second)}},
		{"negative poll interval", &Config{PollInterval: models.Duration(-time.Millisecond)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.cfg.Validate())
		})
	}
}
