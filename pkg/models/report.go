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

package models

import (
	"fmt"
	"strings"
	"time"
)

// DeviceReport summarizes one badge's participation in a session.
type DeviceReport struct {
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	FinalState ConnectionState `json:"final_state"`
	Readings   int64           `json:"readings"`
	Malformed  int64           `json:"malformed"`
	Reconnects int64           `json:"reconnects"`
	Error      string          `json:"error,omitempty"`
}

// SessionReport is the final summary of one collection session, assembled
// after every connection manager has exited.
type SessionReport struct {
	SessionID     string         `json:"session_id"`
	StartTime     time.Time      `json:"start_time"`
	EndTime       time.Time      `json:"end_time"`
	LogFile       string         `json:"log_file,omitempty"`
	Devices       []DeviceReport `json:"devices"`
	RecordsStored int64          `json:"records_stored"`
	WriteFailures int64          `json:"write_failures"`
}

// Elapsed is the wall-clock duration of the session.
func (r *SessionReport) Elapsed() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// TotalReadings sums the readings ingested across all badges.
func (r *SessionReport) TotalReadings() int64 {
	var total int64
	for i := range r.Devices {
		total += r.Devices[i].Readings
	}

	return total
}

// AverageRate is the mean ingestion rate in readings per second.
func (r *SessionReport) AverageRate() float64 {
	secs := r.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}

	return float64(r.TotalReadings()) / secs
}

// String renders the human-readable session summary printed at shutdown.
func (r *SessionReport) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Data Collection Complete (session %s) ===\n", r.SessionID)
	fmt.Fprintf(&b, "Duration: %s\n", r.Elapsed().Round(time.Millisecond))
	fmt.Fprintf(&b, "Total readings: %d (stored %d, write failures %d)\n",
		r.TotalReadings(), r.RecordsStored, r.WriteFailures)
	fmt.Fprintf(&b, "Average rate: %.1f readings/second\n", r.AverageRate())

	if r.LogFile != "" {
		fmt.Fprintf(&b, "Data saved to: %s\n", r.LogFile)
	}

	for i := range r.Devices {
		d := &r.Devices[i]

		fmt.Fprintf(&b, "  %s (%s): state=%s readings=%d malformed=%d reconnects=%d",
			d.Name, d.Address, d.FinalState, d.Readings, d.Malformed, d.Reconnects)

		if d.Error != "" {
			fmt.Fprintf(&b, " error=%s", d.Error)
		}

		b.WriteByte('\n')
	}

	return b.String()
}
