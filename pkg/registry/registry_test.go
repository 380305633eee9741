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

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	r := New(map[string]string{"AA:F4:C8:5D:45:ED": "Badge04"})

	name, ok := r.Lookup("AA:F4:C8:5D:45:ED")
	require.True(t, ok)
	assert.Equal(t, "Badge04", name)

	_, ok = r.Lookup("00:11:22:33:44:55")
	assert.False(t, ok)
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	r := New(map[string]string{"aa:f4:c8:5d:45:ed": "Badge04"})

	name, ok := r.Lookup("AA:F4:C8:5D:45:ED")
	require.True(t, ok)
	assert.Equal(t, "Badge04", name)
	assert.True(t, r.Contains("aa:f4:c8:5d:45:ed"))
}

func TestDescriptorsSortedByName(t *testing.T) {
	r := New(map[string]string{
		"F9:5C:35:CF:D8:53": "Badge09",
		"99:0F:9A:A1:83:96": "Badge01",
		"AA:F4:C8:5D:45:ED": "Badge04",
	})

	descriptors := r.Descriptors()
	require.Len(t, descriptors, 3)
	assert.Equal(t, "Badge01", descriptors[0].Name)
	assert.Equal(t, "Badge04", descriptors[1].Name)
	assert.Equal(t, "Badge09", descriptors[2].Name)
}

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	assert.Equal(t, 7, r.Size())
	assert.True(t, r.Contains("AA:F4:C8:5D:45:ED"))

	name, ok := r.Lookup("D9:6D:90:A1:2B:3A")
	require.True(t, ok)
	assert.Equal(t, "Badge06", name)
}
