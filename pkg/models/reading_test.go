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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingLogRowRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 30, 0, 125_000_000, time.Local)

	original := Reading{
		Timestamp:    ts,
		BadgeName:    "Badge04",
		SoundLevel:   "42.5",
		RSSI:         "-67",
		Acceleration: "0.98",
		RawData:      "42.5,-67,0.98",
	}

	parsed, err := ReadingFromLogRow(original.LogRow())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
	assert.False(t, parsed.Malformed())
}

func TestMalformedReadingRoundTrip(t *testing.T) {
	original := Reading{
		Timestamp:    time.Date(2026, 3, 14, 10, 30, 1, 0, time.Local),
		BadgeName:    "Badge06",
		SoundLevel:   FieldNotAvailable,
		RSSI:         FieldNotAvailable,
		Acceleration: FieldNotAvailable,
		RawData:      "42",
	}

	parsed, err := ReadingFromLogRow(original.LogRow())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
	assert.True(t, parsed.Malformed())
	assert.Equal(t, "42", parsed.RawData)
}

func TestReadingFromLogRowWrongColumns(t *testing.T) {
	_, err := ReadingFromLogRow([]string{"only", "four", "columns", "here"})
	require.ErrorIs(t, err, errWrongColumnCount)
}

func TestReadingFromLogRowBadTimestamp(t *testing.T) {
	row := []string{"not-a-time", "Badge04", "1", "2", "3", "1,2,3"}

	_, err := ReadingFromLogRow(row)
	require.Error(t, err)
}

func TestLogHeaderSchema(t *testing.T) {
	assert.Equal(t,
		[]string{"Timestamp", "Badge_Name", "Sound_Level", "RSSI", "Acceleration", "Raw_Data"},
		LogHeader())
}
