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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/ble"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/discovery"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/models"
)

func newTestCollector(t *testing.T, adapter ble.Adapter, badges ...models.DeviceDescriptor) (*Collector, *fakeWriter) {
	t.Helper()

	cfg := testConfig()
	cfg.Badges = make(map[string]string, len(badges))

	for _, b := range badges {
		cfg.Badges[b.Address] = b.Name
	}

	c := New(cfg, adapter, nil, logger.NewTestLogger())

	writer := newFakeWriter()
	c.NewWriter = func(string, time.Time, logger.Logger) (SessionWriter, error) {
		return writer, nil
	}

	return c, writer
}

func expectScan(adapter *ble.MockAdapter, results ...ble.ScanResult) {
	adapter.EXPECT().
		Scan(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ time.Duration, found func(ble.ScanResult)) error {
			for _, r := range results {
				found(r)
			}
			return nil
		})
}

func TestCollectorNoBadgesDetected(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := ble.NewMockAdapter(ctrl)
	expectScan(adapter) // nothing advertising

	c, writer := newTestCollector(t, adapter, badgeA())

	err := c.Start(context.Background())
	require.ErrorIs(t, err, discovery.ErrNoBadgesDetected)

	report := c.Report()
	require.NotNil(t, report)
	assert.Empty(t, report.Devices)
	assert.Equal(t, int64(0), report.RecordsStored)
	assert.Empty(t, writer.readings())
}

func TestCollectorScanFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := ble.NewMockAdapter(ctrl)
	adapter.EXPECT().
		Scan(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("adapter powered off"))

	c, _ := newTestCollector(t, adapter, badgeA())

	err := c.Start(context.Background())
	require.ErrorIs(t, err, discovery.ErrScanFailed)
	assert.Nil(t, c.Report())
}

func TestCollectorWriterCreationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := ble.NewMockAdapter(ctrl)
	expectScan(adapter, ble.ScanResult{Address: badgeA().Address, Name: badgeA().Name, RSSI: -60})

	c, _ := newTestCollector(t, adapter, badgeA())
	c.NewWriter = func(string, time.Time, logger.Logger) (SessionWriter, error) {
		return nil, errors.New("disk full")
	}

	err := c.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create session writer")
}

func TestCollectorFullSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := ble.NewMockAdapter(ctrl)

	// Two registered badges plus a stranger that must be ignored.
	expectScan(adapter,
		ble.ScanResult{Address: badgeA().Address, Name: badgeA().Name, RSSI: -58},
		ble.ScanResult{Address: badgeB().Address, Name: badgeB().Name, RSSI: -71},
		ble.ScanResult{Address: "00:11:22:33:44:55", Name: "SomeHeadphones", RSSI: -90},
	)

	handlers := make(chan func([]byte), 2)

	adapter.EXPECT().
		Connect(gomock.Any(), badgeA().Address, gomock.Any()).
		Return(newStablePeripheral(ctrl, handlers), nil)
	adapter.EXPECT().
		Connect(gomock.Any(), badgeB().Address, gomock.Any()).
		Return(newStablePeripheral(ctrl, handlers), nil)

	c, writer := newTestCollector(t, adapter, badgeA(), badgeB())

	startErr := make(chan error, 1)

	go func() {
		startErr <- c.Start(context.Background())
	}()

	h1 := <-handlers
	h2 := <-handlers

	h1([]byte("10,-58,0.1"))
	h2([]byte("20,-71,0.2"))
	h1([]byte("11,-58,0.1"))

	// Two priming reads plus three notifications.
	require.Eventually(t, func() bool {
		return len(writer.readings()) == 5
	}, 2*time.Second, eventuallyTick)

	c.RequestStop()

	require.NoError(t, <-startErr)

	report := c.Report()
	require.NotNil(t, report)
	require.Len(t, report.Devices, 2)

	// Discovery sorts by name, so the report order is stable.
	assert.Equal(t, "Badge04", report.Devices[0].Name)
	assert.Equal(t, "Badge06", report.Devices[1].Name)

	for _, device := range report.Devices {
		assert.Equal(t, models.StateSubscribed, device.FinalState)
		assert.Empty(t, device.Error)
	}

	assert.Equal(t, int64(5), report.RecordsStored)
	assert.Equal(t, int64(5), report.TotalReadings())
	assert.Equal(t, int64(0), report.WriteFailures)
	assert.Equal(t, "fake.csv", report.LogFile)
	assert.False(t, report.EndTime.Before(report.StartTime))
}

func TestCollectorStopRequestedBeforeSessionBegins(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := ble.NewMockAdapter(ctrl)

	expectScan(adapter, ble.ScanResult{Address: badgeA().Address, Name: badgeA().Name, RSSI: -60})

	// The badge connects but the session is already stopped, so no
	// subscription happens; it is torn down straight away.
	peripheral := ble.NewMockPeripheral(ctrl)
	peripheral.EXPECT().Connected().Return(true).AnyTimes()
	peripheral.EXPECT().Unsubscribe().Return(nil).AnyTimes()
	peripheral.EXPECT().Disconnect().Return(nil).AnyTimes()

	adapter.EXPECT().
		Connect(gomock.Any(), badgeA().Address, gomock.Any()).
		Return(peripheral, nil)

	c, writer := newTestCollector(t, adapter, badgeA())

	c.RequestStop()

	require.NoError(t, c.Start(context.Background()))

	report := c.Report()
	require.NotNil(t, report)
	require.Len(t, report.Devices, 1)
	assert.Equal(t, models.StateConnected, report.Devices[0].FinalState)
	assert.Equal(t, int64(0), report.Devices[0].Readings)
	assert.Empty(t, writer.readings())
}

func TestCollectorStopWaitsForSessionEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := ble.NewMockAdapter(ctrl)

	expectScan(adapter, ble.ScanResult{Address: badgeA().Address, Name: badgeA().Name, RSSI: -60})

	handlers := make(chan func([]byte), 1)
	adapter.EXPECT().
		Connect(gomock.Any(), badgeA().Address, gomock.Any()).
		Return(newStablePeripheral(ctrl, handlers), nil)

	c, _ := newTestCollector(t, adapter, badgeA())

	startErr := make(chan error, 1)

	go func() {
		startErr <- c.Start(context.Background())
	}()

	// Wait until ingestion is underway before stopping.
	<-handlers

	require.NoError(t, c.Stop(context.Background()))
	require.NoError(t, <-startErr)
	require.NotNil(t, c.Report())
}
