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

// Package models contains the shared data types of the badge collector.
package models

// DeviceDescriptor identifies one badge: its stable hardware address and
// the friendly name it is registered under.
type DeviceDescriptor struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// ConnectionState is the lifecycle state of one badge connection. The state
// is owned exclusively by the badge's connection manager.
type ConnectionState string

const (
	StateDiscovered   ConnectionState = "discovered"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateSubscribed   ConnectionState = "subscribed"
	StateDisconnected ConnectionState = "disconnected"
	StateFailed       ConnectionState = "failed"
)

func (s ConnectionState) String() string {
	return string(s)
}
