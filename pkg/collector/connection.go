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
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/looplab/fsm"
	"github.com/rs/zerolog"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/ble"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/models"
)

// ConnectionManager drives one badge through connect, subscribe, continuous
// ingestion and teardown. It owns the badge's connection state exclusively;
// its failures never abort sibling managers.
type ConnectionManager struct {
	desc    models.DeviceDescriptor
	config  *Config
	adapter ble.Adapter
	session *Session
	machine *fsm.FSM
	pipe    *pipeline
	clock   Clock
	logger  zerolog.Logger

	peripheral ble.Peripheral
	reconnects atomic.Int64
	finalErr   error
}

func newConnectionManager(
	desc models.DeviceDescriptor,
	cfg *Config,
	adapter ble.Adapter,
	session *Session,
	writer SessionWriter,
	clock Clock,
	log logger.Logger,
) *ConnectionManager {
	badgeLog := log.With().Str("badge", desc.Name).Str("address", desc.Address).Logger()

	return &ConnectionManager{
		desc:    desc,
		config:  cfg,
		adapter: adapter,
		session: session,
		machine: newConnectionFSM(),
		pipe:    newPipeline(desc.Name, writer, clock, badgeLog),
		clock:   clock,
		logger:  badgeLog,
	}
}

// State returns the badge's current connection state.
func (m *ConnectionManager) State() models.ConnectionState {
	return models.ConnectionState(m.machine.Current())
}

// Run executes the full lifecycle for this badge and returns its line of the
// session report. It always arrives at the start barrier exactly once, even
// when the connect phase fails.
func (m *ConnectionManager) Run(ctx context.Context) models.DeviceReport {
	if err := m.connectWithRetry(ctx); err != nil {
		m.transition(ctx, eventFail)
		m.finalErr = err
		m.session.Arrive()
		m.logger.Error().Err(err).Msg("Badge excluded from session")

		return m.report()
	}

	m.transition(ctx, eventConnected)
	m.logger.Info().Msg("Connected, waiting for siblings at start barrier")

	m.session.Arrive()

	if err := m.session.AwaitRelease(ctx, m.clock, time.Duration(m.config.BarrierPollInterval)); err != nil {
		m.finalErr = err
		m.teardown()

		return m.report()
	}

	if m.session.Stopped() {
		m.teardown()
		return m.report()
	}

	if err := m.subscribe(ctx); err != nil {
		m.transition(ctx, eventFail)
		m.finalErr = err
		m.logger.Error().Err(err).Msg("Subscription failed")
		m.teardown()

		return m.report()
	}

	m.logger.Info().Msg("Starting data collection")
	m.primingRead()
	m.supervise(ctx)
	m.teardown()

	return m.report()
}

// connectWithRetry attempts the initial connection with bounded attempts and
// a constant inter-attempt delay.
func (m *ConnectionManager) connectWithRetry(ctx context.Context) error {
	m.transition(ctx, eventConnect)

	attempt := 0

	operation := func() error {
		attempt++
		m.logger.Info().Int("attempt", attempt).Int("max_attempts", m.config.ConnectRetries).
			Msg("Attempting to connect")

		peripheral, err := m.connect(ctx, time.Duration(m.config.ConnectTimeout))
		if err != nil {
			m.logger.Warn().Err(err).Int("attempt", attempt).Msg("Connection attempt failed")
			return err
		}

		m.peripheral = peripheral

		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(time.Duration(m.config.RetryDelay)),
			uint64(m.config.ConnectRetries-1),
		),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("%w: %s after %d attempts: %w", ErrConnectFailed, m.desc.Name, attempt, err)
	}

	return nil
}

func (m *ConnectionManager) connect(ctx context.Context, timeout time.Duration) (ble.Peripheral, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return m.adapter.Connect(connectCtx, m.desc.Address, timeout)
}

func (m *ConnectionManager) subscribe(ctx context.Context) error {
	if err := m.peripheral.Subscribe(m.pipe.Handle); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, m.desc.Name, err)
	}

	m.transition(ctx, eventSubscribe)
	m.logger.Info().Msg("Subscribed to badge data feed")

	return nil
}

// primingRead performs the one-shot characteristic read done at collection
// start; its result flows through the same pipeline as notifications.
func (m *ConnectionManager) primingRead() {
	payload, err := m.peripheral.Read()
	if err != nil {
		m.logger.Debug().Err(err).Msg("Could not read initial value")
		return
	}

	m.pipe.Handle(payload)
}

// supervise polls link liveness and the stop flag at the configured cadence.
// Cancellation is cooperative; nothing here is preempted mid-operation.
func (m *ConnectionManager) supervise(ctx context.Context) {
	poll := m.clock.Ticker(time.Duration(m.config.PollInterval))
	defer poll.Stop()

	status := m.clock.Ticker(time.Duration(m.config.StatusInterval))
	defer status.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-status.Chan():
			m.logger.Info().Int64("readings", m.pipe.Readings()).Msg("Collection in progress")
		case <-poll.Chan():
			if m.session.Stopped() {
				return
			}

			if m.peripheral.Connected() {
				continue
			}

			m.transition(ctx, eventDrop)
			m.logger.Warn().Msg("Connection lost, attempting to reconnect")

			if err := m.reconnect(ctx); err != nil {
				m.transition(ctx, eventFail)
				m.finalErr = fmt.Errorf("%w: %s: %w", ErrLinkLost, m.desc.Name, err)
				m.logger.Error().Err(err).Msg("Reconnect failed, badge leaves the session")

				return
			}

			m.logger.Info().Msg("Reconnected")
		}
	}
}

// reconnect makes the single bounded recovery attempt after a detected link
// loss, then re-enables the data feed.
func (m *ConnectionManager) reconnect(ctx context.Context) error {
	m.transition(ctx, eventConnect)

	peripheral, err := m.connect(ctx, time.Duration(m.config.ReconnectTimeout))
	if err != nil {
		return err
	}

	m.peripheral = peripheral
	m.transition(ctx, eventConnected)

	if err := m.subscribe(ctx); err != nil {
		return err
	}

	m.reconnects.Add(1)

	return nil
}

// teardown unsubscribes and disconnects, tolerating errors from either step
// since the link may already be gone.
func (m *ConnectionManager) teardown() {
	if m.peripheral == nil {
		return
	}

	if err := m.peripheral.Unsubscribe(); err != nil {
		m.logger.Debug().Err(err).Msg("Unsubscribe during teardown")
	}

	if err := m.peripheral.Disconnect(); err != nil {
		m.logger.Debug().Err(err).Msg("Disconnect during teardown")
	}

	m.logger.Info().Msg("Disconnected")
}

func (m *ConnectionManager) transition(ctx context.Context, event string) {
	if err := m.machine.Event(ctx, event); err != nil {
		m.logger.Debug().Err(err).Str("event", event).Str("state", m.machine.Current()).
			Msg("Illegal state transition ignored")
	}
}

func (m *ConnectionManager) report() models.DeviceReport {
	r := models.DeviceReport{
		Name:       m.desc.Name,
		Address:    m.desc.Address,
		FinalState: m.State(),
		Readings:   m.pipe.Readings(),
		Malformed:  m.pipe.Malformed(),
		Reconnects: m.reconnects.Load(),
	}

	if m.finalErr != nil {
		r.Error = m.finalErr.Error()
	}

	return r
}
