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

// Package registry holds the static badge hardware-address table. A badge is
// only ever tracked if its address appears here.
package registry

import (
	"sort"
	"strings"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/models"
)

// Registry maps badge hardware addresses to friendly names. Immutable after
// construction.
type Registry struct {
	badges map[string]string
}

// New builds a registry from an address→name map. Addresses are normalized
// to upper case.
func New(badges map[string]string) *Registry {
	normalized := make(map[string]string, len(badges))
	for addr, name := range badges {
		normalized[strings.ToUpper(addr)] = name
	}

	return &Registry{badges: normalized}
}

// Default returns the lab's known badge set.
func Default() *Registry {
	return New(map[string]string{
		"D9:6D:90:A1:2B:3A": "Badge06",
		"99:0F:9A:A1:83:96": "Badge01",
		"F9:5C:35:CF:D8:53": "Badge09",
		"E9:7D:DA:71:28:2C": "Badge05",
		"F9:54:91:BD:45:86": "Badge10",
		"AA:F4:C8:5D:45:ED": "Badge04",
		"71:F2:53:B7:47:FA": "Badge08",
	})
}

// Lookup returns the friendly name for an address.
func (r *Registry) Lookup(address string) (string, bool) {
	name, ok := r.badges[strings.ToUpper(address)]
	return name, ok
}

// Contains reports whether the address belongs to a registered badge.
func (r *Registry) Contains(address string) bool {
	_, ok := r.Lookup(address)
	return ok
}

// Size returns the number of registered badges.
func (r *Registry) Size() int {
	return len(r.badges)
}

// Descriptors returns every registered badge, sorted by name for stable
// iteration.
func (r *Registry) Descriptors() []models.DeviceDescriptor {
	out := make([]models.DeviceDescriptor, 0, len(r.badges))
	for addr, name := range r.badges {
		out = append(out, models.DeviceDescriptor{Address: addr, Name: name})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}
