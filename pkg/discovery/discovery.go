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

// Package discovery scans the local radio for reachable registered badges.
package discovery

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/ble"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/models"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/registry"
)

const defaultScanTimeout = 5 * time.Second

// Service performs bounded scans and filters the results against the badge
// registry.
type Service struct {
	adapter  ble.Adapter
	registry *registry.Registry
	timeout  time.Duration
	logger   logger.Logger
}

// NewService creates a discovery service. A non-positive timeout falls back
// to the default scan window.
func NewService(adapter ble.Adapter, reg *registry.Registry, timeout time.Duration, log logger.Logger) *Service {
	if timeout <= 0 {
		timeout = defaultScanTimeout
	}

	return &Service{
		adapter:  adapter,
		registry: reg,
		timeout:  timeout,
		logger:   log,
	}
}

// Discover scans for the configured window and returns every registered
// badge observed advertising, deduplicated and sorted by name. Advertisers
// not in the registry are logged and excluded. A scan that fails to start is
// fatal to the session.
func (s *Service) Discover(ctx context.Context) ([]models.DeviceDescriptor, error) {
	s.logger.Info().Dur("timeout", s.timeout).Msg("Scanning for badges")

	var mu sync.Mutex

	seen := make(map[string]models.DeviceDescriptor)

	err := s.adapter.Scan(ctx, s.timeout, func(result ble.ScanResult) {
		name, known := s.registry.Lookup(result.Address)
		if !known {
			s.logger.Debug().
				Str("address", result.Address).
				Str("advertised_name", result.Name).
				Int16("rssi", result.RSSI).
				Msg("Ignoring unregistered advertiser")

			return
		}

		mu.Lock()
		defer mu.Unlock()

		if _, dup := seen[result.Address]; dup {
			return
		}

		seen[result.Address] = models.DeviceDescriptor{Address: result.Address, Name: name}

		s.logger.Info().Str("badge", name).Str("address", result.Address).
			Int16("rssi", result.RSSI).Msg("Badge detected")
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanFailed, err)
	}

	mu.Lock()
	defer mu.Unlock()

	found := make([]models.DeviceDescriptor, 0, len(seen))
	for _, desc := range seen {
		found = append(found, desc)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })

	s.logger.Info().Int("detected", len(found)).Int("registered", s.registry.Size()).
		Msg("Scan complete")

	return found, nil
}
