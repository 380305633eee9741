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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string `json:"name"`
	Retries int    `json:"retries"`
}

var errRetries = errors.New("retries must be positive")

func (c *testConfig) Validate() error {
	if c.Retries <= 0 {
		return errRetries
	}

	return nil
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidate(t *testing.T) {
	cfg := NewConfig(nil)
	path := writeTempConfig(t, `{"name": "collector", "retries": 3}`)

	var dst testConfig

	require.NoError(t, cfg.LoadAndValidate(context.Background(), path, &dst))
	assert.Equal(t, "collector", dst.Name)
	assert.Equal(t, 3, dst.Retries)
}

func TestLoadAndValidateInvalidConfig(t *testing.T) {
	cfg := NewConfig(nil)
	path := writeTempConfig(t, `{"name": "collector", "retries": 0}`)

	var dst testConfig

	err := cfg.LoadAndValidate(context.Background(), path, &dst)
	require.ErrorIs(t, err, errRetries)
}

func TestLoadAndValidateMissingFile(t *testing.T) {
	cfg := NewConfig(nil)

	var dst testConfig

	err := cfg.LoadAndValidate(context.Background(), "/nonexistent/config.json", &dst)
	require.ErrorIs(t, err, errLoadConfigFailed)
}

func TestLoadAndValidateMalformedJSON(t *testing.T) {
	cfg := NewConfig(nil)
	path := writeTempConfig(t, `{"name": `)

	var dst testConfig

	err := cfg.LoadAndValidate(context.Background(), path, &dst)
	require.ErrorIs(t, err, errLoadConfigFailed)
}

func TestLoadAndValidateNilDst(t *testing.T) {
	cfg := NewConfig(nil)

	err := cfg.LoadAndValidate(context.Background(), "ignored.json", nil)
	require.ErrorIs(t, err, errInvalidConfigPtr)
}
