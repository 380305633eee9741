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
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the wall-clock format used in the session log,
// millisecond resolution.
const TimestampLayout = "2006-01-02 15:04:05.000"

// FieldNotAvailable marks a numeric field that could not be parsed from the
// badge payload. The raw payload text is still preserved alongside it.
const FieldNotAvailable = "N/A"

var errWrongColumnCount = errors.New("log row has wrong column count")

// Reading is one decoded badge sample. It is created by the notification
// pipeline at arrival time and immutable afterwards; ownership passes to the
// persistence writer.
type Reading struct {
	Timestamp    time.Time
	BadgeName    string
	SoundLevel   string
	RSSI         string
	Acceleration string
	RawData      string
}

// Malformed reports whether the payload failed to parse into the three
// expected numeric fields.
func (r *Reading) Malformed() bool {
	return r.SoundLevel == FieldNotAvailable
}

// LogHeader is the header row of every session log file.
func LogHeader() []string {
	return []string{"Timestamp", "Badge_Name", "Sound_Level", "RSSI", "Acceleration", "Raw_Data"}
}

// LogRow renders the reading as one session log row.
func (r *Reading) LogRow() []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		r.BadgeName,
		r.SoundLevel,
		r.RSSI,
		r.Acceleration,
		r.RawData,
	}
}

// ReadingFromLogRow parses a session log row back into a Reading. Downstream
// analysis tools use the same schema.
func ReadingFromLogRow(row []string) (Reading, error) {
	if len(row) != len(LogHeader()) {
		return Reading{}, fmt.Errorf("%w: got %d columns", errWrongColumnCount, len(row))
	}

	ts, err := time.ParseInLocation(TimestampLayout, row[0], time.Local)
	if err != nil {
		return Reading{}, fmt.Errorf("bad timestamp %q: %w", row[0], err)
	}

	return Reading{
		Timestamp:    ts,
		BadgeName:    row[1],
		SoundLevel:   row[2],
		RSSI:         row[3],
		Acceleration: row[4],
		RawData:      row[5],
	}, nil
}
