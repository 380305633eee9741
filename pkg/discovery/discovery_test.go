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

package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/ble"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/registry"
)

func testRegistry() *registry.Registry {
	return registry.New(map[string]string{
		"AA:F4:C8:5D:45:ED": "Badge04",
		"D9:6D:90:A1:2B:3A": "Badge06",
	})
}

func TestDiscoverFiltersUnregisteredDevices(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := ble.NewMockAdapter(ctrl)

	adapter.EXPECT().
		Scan(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ time.Duration, found func(ble.ScanResult)) error {
			found(ble.ScanResult{Address: "AA:F4:C8:5D:45:ED", Name: "Badge04", RSSI: -60})
			found(ble.ScanResult{Address: "00:11:22:33:44:55", Name: "SomePhone", RSSI: -40})
			found(ble.ScanResult{Address: "D9:6D:90:A1:2B:3A", Name: "Badge06", RSSI: -72})
			return nil
		})

	svc := NewService(adapter, testRegistry(), time.Second, logger.NewTestLogger())

	found, err := svc.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Badge04", found[0].Name)
	assert.Equal(t, "Badge06", found[1].Name)
}

func TestDiscoverDeduplicatesAdvertisements(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := ble.NewMockAdapter(ctrl)

	adapter.EXPECT().
		Scan(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ time.Duration, found func(ble.ScanResult)) error {
			for i := 0; i < 5; i++ {
				found(ble.ScanResult{Address: "AA:F4:C8:5D:45:ED", RSSI: -60})
			}
			return nil
		})

	svc := NewService(adapter, testRegistry(), time.Second, logger.NewTestLogger())

	found, err := svc.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Badge04", found[0].Name)
	assert.Equal(t, "AA:F4:C8:5D:45:ED", found[0].Address)
}

func TestDiscoverScanFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := ble.NewMockAdapter(ctrl)

	adapter.EXPECT().
		Scan(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("hci device busy"))

	svc := NewService(adapter, testRegistry(), time.Second, logger.NewTestLogger())

	_, err := svc.Discover(context.Background())
	require.ErrorIs(t, err, ErrScanFailed)
}

func TestDiscoverEmptyResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := ble.NewMockAdapter(ctrl)

	adapter.EXPECT().
		Scan(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	svc := NewService(adapter, testRegistry(), time.Second, logger.NewTestLogger())

	found, err := svc.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
}
