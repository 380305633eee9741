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

// Package sink persists readings to the append-only session log. A single
// consumer goroutine serializes all appends, so records are never corrupted
// by interleaved partial writes.
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/models"
)

const (
	intakeBuffer     = 256
	filenameTimeFmt  = "20060102_150405"
	sessionFilePerms = 0o644
)

// Stats are the writer's durable-output counters.
type Stats struct {
	Written int64
	Failed  int64
}

// CSVWriter is the shared persistence writer for one session. All device
// pipelines enqueue into it; one goroutine drains the queue to disk in
// arrival order.
type CSVWriter struct {
	path   string
	logger logger.Logger

	in   chan models.Reading
	done chan struct{}

	file *os.File
	csv  *csv.Writer

	written atomic.Int64
	failed  atomic.Int64
}

// NewCSVWriter creates the session log under dir, named after the session
// start time, and writes the header row.
func NewCSVWriter(dir string, start time.Time, log logger.Logger) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("AllBadges_data_%s.csv", start.Format(filenameTimeFmt)))

	w := &CSVWriter{
		path:   path,
		logger: log,
		in:     make(chan models.Reading, intakeBuffer),
		done:   make(chan struct{}),
	}

	if err := w.openWithHeader(); err != nil {
		return nil, err
	}

	log.Info().Str("path", path).Msg("Created session log")

	return w, nil
}

// Path returns the session log file path.
func (w *CSVWriter) Path() string {
	return w.path
}

// Enqueue hands a reading to the writer. It blocks until the writer accepts
// it (preserving per-device order) unless the writer has already stopped, in
// which case the reading is counted as failed.
func (w *CSVWriter) Enqueue(reading models.Reading) {
	select {
	case <-w.done:
		w.failed.Add(1)
		w.logger.Warn().Str("badge", reading.BadgeName).Msg("Writer stopped, reading discarded")

		return
	default:
	}

	select {
	case w.in <- reading:
	case <-w.done:
		w.failed.Add(1)
		w.logger.Warn().Str("badge", reading.BadgeName).Msg("Writer stopped, reading discarded")
	}
}

// Run drains the intake queue until Stop is called, then flushes any
// buffered readings and closes the log. It is the only goroutine that
// touches the file. Context cancellation alone does not end consumption:
// producers may still be shutting down, and every reading they enqueue
// before Stop must be persisted or counted as failed, never dropped.
func (w *CSVWriter) Run(ctx context.Context) error {
	defer w.closeFile()

	for {
		select {
		case reading := <-w.in:
			w.append(&reading)
		case <-ctx.Done():
			w.drainUntilStop()
			return ctx.Err()
		case <-w.done:
			w.drain()
			return nil
		}
	}
}

// drainUntilStop keeps consuming the intake queue after cancellation until
// Stop closes the done channel, then empties whatever is left buffered.
func (w *CSVWriter) drainUntilStop() {
	for {
		select {
		case reading := <-w.in:
			w.append(&reading)
		case <-w.done:
			w.drain()
			return
		}
	}
}

// Stop signals Run to drain and exit.
func (w *CSVWriter) Stop() {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
}

// Stats returns the written/failed counters.
func (w *CSVWriter) Stats() Stats {
	return Stats{
		Written: w.written.Load(),
		Failed:  w.failed.Load(),
	}
}

func (w *CSVWriter) drain() {
	for {
		select {
		case reading := <-w.in:
			w.append(&reading)
		default:
			return
		}
	}
}

// append writes one record. Failures are counted and logged; ingestion from
// other badges continues and the reading is not retried.
func (w *CSVWriter) append(reading *models.Reading) {
	if err := w.ensureFile(); err != nil {
		w.failed.Add(1)
		w.logger.Error().Err(err).Str("badge", reading.BadgeName).Msg("Failed to reopen session log")

		return
	}

	if err := w.csv.Write(reading.LogRow()); err != nil {
		w.failed.Add(1)
		w.logger.Error().Err(err).Str("badge", reading.BadgeName).Msg("Failed to append reading")

		return
	}

	w.csv.Flush()

	if err := w.csv.Error(); err != nil {
		w.failed.Add(1)
		w.logger.Error().Err(err).Str("badge", reading.BadgeName).Msg("Failed to flush reading")

		return
	}

	w.written.Add(1)
}

// ensureFile recreates the log with its header if it was removed out from
// under us mid-session.
func (w *CSVWriter) ensureFile() error {
	if w.file != nil {
		if _, err := os.Stat(w.path); err == nil {
			return nil
		}

		w.logger.Warn().Str("path", w.path).Msg("Session log missing, recreating")
		w.closeFile()
	}

	return w.openWithHeader()
}

func (w *CSVWriter) openWithHeader() error {
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, sessionFilePerms)
	if err != nil {
		return fmt.Errorf("failed to open session log %s: %w", w.path, err)
	}

	w.file = file
	w.csv = csv.NewWriter(file)

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat session log %s: %w", w.path, err)
	}

	if info.Size() == 0 {
		if err := w.csv.Write(models.LogHeader()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}

		w.csv.Flush()

		if err := w.csv.Error(); err != nil {
			return fmt.Errorf("failed to flush header: %w", err)
		}
	}

	return nil
}

func (w *CSVWriter) closeFile() {
	if w.file == nil {
		return
	}

	w.csv.Flush()

	if err := w.file.Close(); err != nil {
		w.logger.Error().Err(err).Msg("Error closing session log")
	}

	w.file = nil
	w.csv = nil
}
