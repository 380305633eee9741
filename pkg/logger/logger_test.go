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

package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	log, err := New(nil)
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "definitely-not-a-level"})
	require.Error(t, err)
}

func TestNewDebugOverridesLevel(t *testing.T) {
	log, err := New(&Config{Level: "error", Debug: true})
	require.NoError(t, err)

	// Debug events must be enabled when Debug is set, regardless of Level.
	assert.True(t, log.Debug().Enabled())
}

func TestWithComponent(t *testing.T) {
	log, err := New(&Config{Level: "info"})
	require.NoError(t, err)

	component := log.WithComponent("collector")
	assert.NotNil(t, component)
}

func TestTestLoggerIsSilent(t *testing.T) {
	log := NewTestLogger()

	assert.False(t, log.Info().Enabled())
	assert.False(t, log.Error().Enabled())

	log.SetLevel(zerolog.DebugLevel)
	log.SetDebug(true)
}
