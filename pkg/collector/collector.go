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

// Package collector orchestrates one badge telemetry collection session:
// discovery, simultaneous per-badge connections synchronized at a start
// barrier, push ingestion into a shared session log, and a clean cooperative
// shutdown producing the final report.
package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/ble"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/discovery"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/models"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/registry"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/sink"
)

// Collector runs collection sessions. It implements lifecycle.Service.
type Collector struct {
	config     *Config
	registry   *registry.Registry
	adapter    ble.Adapter
	discoverer *discovery.Service
	clock      Clock
	logger     logger.Logger

	// NewWriter creates the session writer; overridable in tests.
	NewWriter func(dir string, start time.Time, log logger.Logger) (SessionWriter, error)

	mu      sync.Mutex
	session *Session
	report  *models.SessionReport

	stopRequested atomic.Bool
	done          chan struct{}
	closeOnce     sync.Once
}

// New creates a collector. A nil clock defaults to the real clock. An empty
// badge map in the config falls back to the lab's default badge set.
func New(cfg *Config, adapter ble.Adapter, clock Clock, log logger.Logger) *Collector {
	if clock == nil {
		clock = realClock{}
	}

	var reg *registry.Registry
	if len(cfg.Badges) == 0 {
		reg = registry.Default()
	} else {
		reg = registry.New(cfg.Badges)
	}

	return &Collector{
		config:     cfg,
		registry:   reg,
		adapter:    adapter,
		discoverer: discovery.NewService(adapter, reg, time.Duration(cfg.ScanTimeout), log),
		clock:      clock,
		logger:     log,
		NewWriter: func(dir string, start time.Time, l logger.Logger) (SessionWriter, error) {
			return sink.NewCSVWriter(dir, start, l)
		},
		done: make(chan struct{}),
	}
}

// Start runs one full session: discover, connect, ingest until stop, report.
// It blocks until the session ends and implements lifecycle.Service.
func (c *Collector) Start(ctx context.Context) error {
	defer c.closeOnce.Do(func() { close(c.done) })

	devices, err := c.discoverer.Discover(ctx)
	if err != nil {
		return err
	}

	start := c.clock.Now()
	session := NewSession(start, len(devices))

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	if c.stopRequested.Load() {
		session.Stop()
	}

	if len(devices) == 0 {
		c.logger.Warn().Msg("No registered badges reachable, ending session")
		c.setReport(&models.SessionReport{SessionID: session.ID, StartTime: start, EndTime: start})

		return discovery.ErrNoBadgesDetected
	}

	c.logger.Info().Str("session", session.ID).Int("badges", len(devices)).
		Msg("Starting collection session")

	writer, err := c.NewWriter(c.config.OutputDir, start, c.logger)
	if err != nil {
		return fmt.Errorf("failed to create session writer: %w", err)
	}

	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)

		if runErr := writer.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
			c.logger.Error().Err(runErr).Msg("Session writer exited with error")
		}
	}()

	reports := make([]models.DeviceReport, len(devices))

	g, gctx := errgroup.WithContext(ctx)

	for i, desc := range devices {
		i := i
		mgr := newConnectionManager(desc, c.config, c.adapter, session, writer, c.clock, c.logger)

		g.Go(func() error {
			reports[i] = mgr.Run(gctx)
			return nil
		})
	}

	// Managers never propagate their errors; each one's outcome lands in
	// its device report instead.
	_ = g.Wait()

	writer.Stop()
	<-writerDone

	stats := writer.Stats()

	report := &models.SessionReport{
		SessionID:     session.ID,
		StartTime:     start,
		EndTime:       c.clock.Now(),
		LogFile:       writer.Path(),
		Devices:       reports,
		RecordsStored: stats.Written,
		WriteFailures: stats.Failed,
	}
	c.setReport(report)

	c.logger.Info().
		Str("session", session.ID).
		Int64("readings", report.TotalReadings()).
		Int64("stored", report.RecordsStored).
		Int64("write_failures", report.WriteFailures).
		Dur("elapsed", report.Elapsed()).
		Msg("Session complete")

	return nil
}

// RequestStop raises the cooperative stop flag. Supervision loops observe it
// at their next poll; there is no preemptive interrupt.
func (c *Collector) RequestStop() {
	c.stopRequested.Store(true)

	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session != nil {
		session.Stop()
	}
}

// Stop implements lifecycle.Service: it requests a cooperative stop and
// waits for the running session to finish within ctx.
func (c *Collector) Stop(ctx context.Context) error {
	c.RequestStop()

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Report returns the summary of the finished session, or nil if no session
// has completed yet.
func (c *Collector) Report() *models.SessionReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.report
}

func (c *Collector) setReport(report *models.SessionReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = report
}
