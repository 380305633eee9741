/*
 * Copyright 2026 SCI Lab.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package collector

import (
	"time"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/models"
)

const (
	defaultScanTimeout      = 5 * time.Second
	defaultConnectTimeout   = 10 * time.Second
	defaultReconnectTimeout = 5 * time.Second
	defaultConnectRetries   = 3
	defaultRetryDelay       = 2 * time.Second
	defaultPollInterval     = 500 * time.Millisecond
	defaultBarrierPoll      = 500 * time.Millisecond
	defaultStatusInterval   = 10 * time.Second
	defaultOutputDir        = "badge_data"
)

// Config is the collector's runtime configuration. Badges maps hardware
// addresses to friendly names; when empty, the lab's default badge set is
// used.
type Config struct {
	Badges              map[string]string `json:"badges"`
	ScanTimeout         models.Duration   `json:"scan_timeout"`
	ConnectTimeout      models.Duration   `json:"connect_timeout"`
	ReconnectTimeout    models.Duration   `json:"reconnect_timeout"`
	ConnectRetries      int               `json:"connect_retries"`
	RetryDelay          models.Duration   `json:"retry_delay"`
	PollInterval        models.Duration   `json:"poll_interval"`
	BarrierPollInterval models.Duration   `json:"barrier_poll_interval"`
	StatusInterval      models.Duration   `json:"status_interval"`
	OutputDir           string            `json:"output_dir"`
	Logging             *logger.Config    `json:"logging,omitempty"`
}

// DefaultConfig returns the configuration matching the lab's standard
// collection setup.
func DefaultConfig() *Config {
	return &Config{
		ScanTimeout:         models.Duration(defaultScanTimeout),
		ConnectTimeout:      models.Duration(defaultConnectTimeout),
		ReconnectTimeout:    models.Duration(defaultReconnectTimeout),
		ConnectRetries:      defaultConnectRetries,
		RetryDelay:          models.Duration(defaultRetryDelay),
		PollInterval:        models.Duration(defaultPollInterval),
		BarrierPollInterval: models.Duration(defaultBarrierPoll),
		StatusInterval:      models.Duration(defaultStatusInterval),
		OutputDir:           defaultOutputDir,
	}
}

// Validate normalizes zero values to their defaults and rejects
// configurations the collector cannot run with.
func (c *Config) Validate() error {
	defaults := DefaultConfig()

	if c.ScanTimeout == 0 {
		c.ScanTimeout = defaults.ScanTimeout
	}

	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = defaults.ConnectTimeout
	}

	if c.ReconnectTimeout == 0 {
		c.ReconnectTimeout = defaults.ReconnectTimeout
	}

	if c.ConnectRetries == 0 {
		c.ConnectRetries = defaults.ConnectRetries
	}

	if c.RetryDelay == 0 {
		c.RetryDelay = defaults.RetryDelay
	}

	if c.PollInterval == 0 {
		c.PollInterval = defaults.PollInterval
	}

	if c.BarrierPollInterval == 0 {
		c.BarrierPollInterval = defaults.BarrierPollInterval
	}

	if c.StatusInterval == 0 {
		c.StatusInterval = defaults.StatusInterval
	}

	if c.OutputDir == "" {
		c.OutputDir = defaults.OutputDir
	}

	if c.ConnectRetries < 1 {
		return errInvalidRetries
	}

	if c.ConnectTimeout < 0 || c.ReconnectTimeout < 0 || c.ScanTimeout < 0 {
		return errInvalidTimeout
	}

	if c.RetryDelay < 0 || c.PollInterval < 0 || c.BarrierPollInterval < 0 || c.StatusInterval < 0 {
		return errInvalidInterval
	}

	return nil
}
