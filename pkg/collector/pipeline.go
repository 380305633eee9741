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
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/models"
)

const (
	payloadFieldCount = 3
	logSampleEvery    = 10
)

// pipeline turns raw notification payloads from one badge into Readings and
// hands them to the session writer. It runs on the wireless stack's dispatch
// goroutine, so it must stay fast and must never panic outward.
type pipeline struct {
	badge  string
	writer SessionWriter
	clock  Clock
	logger zerolog.Logger

	readings  atomic.Int64
	malformed atomic.Int64
}

func newPipeline(badge string, writer SessionWriter, clock Clock, log zerolog.Logger) *pipeline {
	return &pipeline{
		badge:  badge,
		writer: writer,
		clock:  clock,
		logger: log,
	}
}

// Handle processes one pushed payload. Malformed payloads still produce a
// best-effort record with the raw text preserved; nothing is dropped
// silently and no failure escapes to the owning connection manager.
func (p *pipeline) Handle(payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Str("badge", p.badge).
				Msg("Recovered from notification handler panic")
		}
	}()

	reading := p.decode(payload)

	total := p.readings.Add(1)

	if reading.Malformed() {
		p.malformed.Add(1)
		p.logger.Warn().Str("badge", p.badge).Str("raw", reading.RawData).
			Msg("Malformed payload, recording as N/A")
	} else if total%logSampleEvery == 0 {
		p.logger.Info().
			Str("badge", p.badge).
			Int64("count", total).
			Str("sound", reading.SoundLevel).
			Str("rssi", reading.RSSI).
			Str("acc", reading.Acceleration).
			Msg("Reading sample")
	}

	p.writer.Enqueue(reading)
}

// decode parses "sound,rssi,acceleration". Any deviation (bad UTF-8, wrong
// field count, non-numeric content) yields an N/A reading carrying the raw
// text.
func (p *pipeline) decode(payload []byte) models.Reading {
	raw := string(payload)
	if !utf8.Valid(payload) {
		raw = strings.ToValidUTF8(raw, "�")
		return p.malformedReading(raw)
	}

	fields := strings.Split(raw, ",")
	if len(fields) != payloadFieldCount {
		return p.malformedReading(raw)
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])

		if _, err := strconv.ParseFloat(fields[i], 64); err != nil {
			return p.malformedReading(raw)
		}
	}

	return models.Reading{
		Timestamp:    p.clock.Now(),
		BadgeName:    p.badge,
		SoundLevel:   fields[0],
		RSSI:         fields[1],
		Acceleration: fields[2],
		RawData:      raw,
	}
}

func (p *pipeline) malformedReading(raw string) models.Reading {
	return models.Reading{
		Timestamp:    p.clock.Now(),
		BadgeName:    p.badge,
		SoundLevel:   models.FieldNotAvailable,
		RSSI:         models.FieldNotAvailable,
		Acceleration: models.FieldNotAvailable,
		RawData:      raw,
	}
}

// Readings returns the total number of payloads ingested, malformed ones
// included.
func (p *pipeline) Readings() int64 {
	return p.readings.Load()
}

// Malformed returns how many payloads failed to parse.
func (p *pipeline) Malformed() int64 {
	return p.malformed.Load()
}
