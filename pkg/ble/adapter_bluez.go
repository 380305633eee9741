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

package ble

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
)

var (
	ErrScanStart         = errors.New("failed to start scan")
	errServiceNotFound   = errors.New("badge data service not found")
	errCharNotFound      = errors.New("badge data characteristic not found")
	errAlreadySubscribed = errors.New("already subscribed")
)

const readBufferSize = 64

// BluezAdapter implements Adapter on the host Bluetooth stack.
type BluezAdapter struct {
	adapter *bluetooth.Adapter
	logger  logger.Logger

	mu    sync.Mutex
	links map[string]*bluezPeripheral
}

// NewAdapter enables the default host adapter and returns it behind the
// Adapter interface.
func NewAdapter(log logger.Logger) (*BluezAdapter, error) {
	raw := bluetooth.DefaultAdapter
	if err := raw.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable bluetooth adapter: %w", err)
	}

	a := &BluezAdapter{
		adapter: raw,
		logger:  log,
		links:   make(map[string]*bluezPeripheral),
	}

	// Link-loss detection: the stack reports connect/disconnect transitions
	// here, the supervision loops observe them through Connected().
	raw.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		a.mu.Lock()
		link, ok := a.links[device.Address.String()]
		a.mu.Unlock()

		if ok {
			link.setConnected(connected)
		}
	})

	return a, nil
}

// Scan implements Adapter. It blocks for the full timeout; every advertiser
// seen is reported through found.
func (a *BluezAdapter) Scan(ctx context.Context, timeout time.Duration, found func(ScanResult)) error {
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(scanCtx, func() {
		if err := a.adapter.StopScan(); err != nil {
			a.logger.Debug().Err(err).Msg("StopScan after timeout")
		}
	})
	defer stop()

	err := a.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		found(ScanResult{
			Address: result.Address.String(),
			Name:    result.LocalName(),
			RSSI:    result.RSSI,
		})
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScanStart, err)
	}

	return nil
}

// Connect implements Adapter.
func (a *BluezAdapter) Connect(ctx context.Context, address string, timeout time.Duration) (Peripheral, error) {
	mac, err := bluetooth.ParseMAC(address)
	if err != nil {
		return nil, fmt.Errorf("invalid badge address %q: %w", address, err)
	}

	addr := bluetooth.Address{MACAddress: bluetooth.MACAddress{MAC: mac}}

	device, err := a.adapter.Connect(addr, bluetooth.ConnectionParams{
		ConnectionTimeout: bluetooth.NewDuration(timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", address, err)
	}

	if err := ctx.Err(); err != nil {
		_ = device.Disconnect()
		return nil, err
	}

	char, err := discoverDataCharacteristic(device)
	if err != nil {
		_ = device.Disconnect()
		return nil, err
	}

	link := &bluezPeripheral{
		address: address,
		device:  device,
		char:    char,
	}
	link.connected.Store(true)

	a.mu.Lock()
	a.links[address] = link
	a.mu.Unlock()

	return link, nil
}

func discoverDataCharacteristic(device bluetooth.Device) (bluetooth.DeviceCharacteristic, error) {
	var zero bluetooth.DeviceCharacteristic

	svcUUID, err := bluetooth.ParseUUID(ServiceUUID)
	if err != nil {
		return zero, err
	}

	charUUID, err := bluetooth.ParseUUID(DataCharUUID)
	if err != nil {
		return zero, err
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil {
		return zero, fmt.Errorf("%w: %w", errServiceNotFound, err)
	}

	if len(services) == 0 {
		return zero, errServiceNotFound
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{charUUID})
	if err != nil {
		return zero, fmt.Errorf("%w: %w", errCharNotFound, err)
	}

	if len(chars) == 0 {
		return zero, errCharNotFound
	}

	return chars[0], nil
}

// bluezPeripheral implements Peripheral for one connected badge.
type bluezPeripheral struct {
	address   string
	device    bluetooth.Device
	char      bluetooth.DeviceCharacteristic
	connected atomic.Bool

	mu         sync.Mutex
	subscribed bool
}

func (p *bluezPeripheral) Address() string {
	return p.address
}

func (p *bluezPeripheral) Subscribe(handler func(payload []byte)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.subscribed {
		return errAlreadySubscribed
	}

	if err := p.char.EnableNotifications(handler); err != nil {
		return fmt.Errorf("enable notifications on %s: %w", p.address, err)
	}

	p.subscribed = true

	return nil
}

func (p *bluezPeripheral) Unsubscribe() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.subscribed {
		return nil
	}

	p.subscribed = false

	// A nil callback disables notifications at the stack level.
	if err := p.char.EnableNotifications(nil); err != nil {
		return fmt.Errorf("disable notifications on %s: %w", p.address, err)
	}

	return nil
}

func (p *bluezPeripheral) Read() ([]byte, error) {
	buf := make([]byte, readBufferSize)

	n, err := p.char.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read characteristic on %s: %w", p.address, err)
	}

	return buf[:n], nil
}

func (p *bluezPeripheral) Connected() bool {
	return p.connected.Load()
}

func (p *bluezPeripheral) Disconnect() error {
	p.setConnected(false)
	return p.device.Disconnect()
}

func (p *bluezPeripheral) setConnected(up bool) {
	p.connected.Store(up)
}
