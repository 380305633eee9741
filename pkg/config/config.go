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

// Package config loads and validates JSON configuration files.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
)

var (
	errLoadConfigFailed = errors.New("failed to load configuration")
	errInvalidConfigPtr = errors.New("config must be a non-nil pointer")
)

// ConfigLoader loads configuration from a backing source into dst.
type ConfigLoader interface {
	Load(ctx context.Context, path string, dst interface{}) error
}

// Validator is implemented by configs that can validate themselves.
type Validator interface {
	Validate() error
}

// Config holds the configuration loading dependencies.
type Config struct {
	defaultLoader ConfigLoader
	logger        logger.Logger
}

// NewConfig initializes a new Config instance with a default file loader.
// If log is nil, a basic stderr logger is used.
func NewConfig(log logger.Logger) *Config {
	if log == nil {
		log = createBasicLogger()
	}

	return &Config{
		defaultLoader: &FileConfigLoader{logger: log},
		logger:        log,
	}
}

// LoadAndValidate loads configuration from path into dst and validates it
// if dst implements Validator.
func (c *Config) LoadAndValidate(ctx context.Context, path string, dst interface{}) error {
	if dst == nil {
		return errInvalidConfigPtr
	}

	if err := c.defaultLoader.Load(ctx, path, dst); err != nil {
		return fmt.Errorf("%w: %w", errLoadConfigFailed, err)
	}

	return ValidateConfig(dst)
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}

	return v.Validate()
}

// basicLogger implements a simple logger for config loading without circular imports
type basicLogger struct {
	logger zerolog.Logger
}

func createBasicLogger() logger.Logger {
	zlog := zerolog.New(os.Stderr).
		Level(zerolog.WarnLevel).
		With().
		Timestamp().
		Logger()

	return &basicLogger{logger: zlog}
}

func (b *basicLogger) Trace() *zerolog.Event {
	return b.logger.Trace()
}

func (b *basicLogger) Debug() *zerolog.Event {
	return b.logger.Debug()
}

func (b *basicLogger) Info() *zerolog.Event {
	return b.logger.Info()
}

func (b *basicLogger) Warn() *zerolog.Event {
	return b.logger.Warn()
}

func (b *basicLogger) Error() *zerolog.Event {
	return b.logger.Error()
}

func (b *basicLogger) Fatal() *zerolog.Event {
	return b.logger.Fatal()
}

func (b *basicLogger) Panic() *zerolog.Event {
	return b.logger.Panic()
}

func (b *basicLogger) With() zerolog.Context {
	return b.logger.With()
}

func (b *basicLogger) WithComponent(component string) zerolog.Logger {
	return b.logger.With().Str("component", component).Logger()
}

func (b *basicLogger) WithFields(fields map[string]interface{}) zerolog.Logger {
	ctx := b.logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}

	return ctx.Logger()
}

func (b *basicLogger) SetLevel(level zerolog.Level) {
	b.logger = b.logger.Level(level)
}

func (b *basicLogger) SetDebug(debug bool) {
	if debug {
		b.SetLevel(zerolog.DebugLevel)
	} else {
		b.SetLevel(zerolog.InfoLevel)
	}
}
