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

// Package ble is the boundary to the wireless stack. Everything above it
// depends only on these interfaces; the hardware-backed implementation lives
// in adapter_bluez.go.
package ble

//go:generate mockgen -destination=mock_ble.go -package=ble github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/ble Adapter,Peripheral

import (
	"context"
	"time"
)

// ScanResult is one advertiser observed during a scan.
type ScanResult struct {
	Address string
	Name    string
	RSSI    int16
}

// Adapter abstracts the local radio: bounded scanning and connection
// establishment.
type Adapter interface {
	// Scan observes advertisers for at most timeout, invoking found for each
	// result. It returns once the timeout elapses or ctx is canceled.
	Scan(ctx context.Context, timeout time.Duration, found func(ScanResult)) error

	// Connect establishes a link to the peripheral at address, waiting at
	// most timeout for it to come up.
	Connect(ctx context.Context, address string, timeout time.Duration) (Peripheral, error)
}

// Peripheral is one connected badge. Notification delivery happens on the
// stack's dispatch goroutine; handlers must not block.
type Peripheral interface {
	Address() string

	// Subscribe enables push notifications on the badge's data
	// characteristic.
	Subscribe(handler func(payload []byte)) error

	// Unsubscribe disables notifications. Safe to call on a dead link.
	Unsubscribe() error

	// Read performs a one-shot read of the data characteristic.
	Read() ([]byte, error)

	// Connected reports current link liveness.
	Connected() bool

	Disconnect() error
}
