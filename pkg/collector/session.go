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
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session is the shared state of one collection run: the start barrier
// counter every connection manager arrives at, and the cooperative stop flag
// every supervision loop polls.
type Session struct {
	ID        string
	StartTime time.Time
	Total     int

	mu      sync.Mutex
	arrived int

	stopped atomic.Bool
}

// NewSession creates the session context for total target badges.
func NewSession(start time.Time, total int) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartTime: start,
		Total:     total,
	}
}

// Arrive records that one manager finished its connect phase (successfully
// or not) and returns the new arrival count. Each manager arrives exactly
// once, so the count never exceeds Total.
func (s *Session) Arrive() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.arrived++

	return s.arrived
}

// Arrived returns the current arrival count.
func (s *Session) Arrived() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.arrived
}

// AwaitRelease blocks until every target badge has resolved its connect
// phase, polling at the given cadence. It returns early if the session is
// stopped or ctx is canceled. With zero targets the barrier is a no-op.
func (s *Session) AwaitRelease(ctx context.Context, clock Clock, poll time.Duration) error {
	if s.released() {
		return nil
	}

	ticker := clock.Ticker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			if s.released() || s.Stopped() {
				return nil
			}
		}
	}
}

func (s *Session) released() bool {
	return s.Arrived() >= s.Total
}

// Stop raises the session-wide cancellation flag. Supervision loops observe
// it cooperatively at their next poll.
func (s *Session) Stop() {
	s.stopped.Store(true)
}

// Stopped reports whether the operator has requested shutdown.
func (s *Session) Stopped() bool {
	return s.stopped.Load()
}
