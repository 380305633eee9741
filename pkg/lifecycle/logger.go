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

package lifecycle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
)

// CreateComponentLogger creates a logger for a specific component with the
// provided configuration.
func CreateComponentLogger(_ context.Context, componentName string, config *logger.Config) (logger.Logger, error) {
	log, err := logger.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger for %s: %w", componentName, err)
	}

	return &componentLogger{inner: log, component: componentName}, nil
}

// componentLogger tags every event with the owning component name.
type componentLogger struct {
	inner     logger.Logger
	component string
}

func (c *componentLogger) event(e *zerolog.Event) *zerolog.Event {
	return e.Str("component", c.component)
}

func (c *componentLogger) Trace() *zerolog.Event { return c.event(c.inner.Trace()) }
func (c *componentLogger) Debug() *zerolog.Event { return c.event(c.inner.Debug()) }
func (c *componentLogger) Info() *zerolog.Event  { return c.event(c.inner.Info()) }
func (c *componentLogger) Warn() *zerolog.Event  { return c.event(c.inner.Warn()) }
func (c *componentLogger) Error() *zerolog.Event { return c.event(c.inner.Error()) }
func (c *componentLogger) Fatal() *zerolog.Event { return c.event(c.inner.Fatal()) }
func (c *componentLogger) Panic() *zerolog.Event { return c.event(c.inner.Panic()) }

func (c *componentLogger) With() zerolog.Context {
	return c.inner.With().Str("component", c.component)
}

func (c *componentLogger) WithComponent(component string) zerolog.Logger {
	return c.inner.WithComponent(component)
}

func (c *componentLogger) WithFields(fields map[string]interface{}) zerolog.Logger {
	return c.inner.WithFields(fields)
}

func (c *componentLogger) SetLevel(level zerolog.Level) { c.inner.SetLevel(level) }
func (c *componentLogger) SetDebug(debug bool)          { c.inner.SetDebug(debug) }
