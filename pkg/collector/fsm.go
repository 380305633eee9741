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
	"github.com/looplab/fsm"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/models"
)

// Connection lifecycle events. Transitions not listed here are illegal and
// rejected by the state machine.
const (
	eventConnect   = "connect"
	eventConnected = "connected"
	eventSubscribe = "subscribe"
	eventDrop      = "drop"
	eventFail      = "fail"
)

// newConnectionFSM builds the per-badge state machine:
// discovered→connecting→{connected|failed}, connected→subscribed→
// disconnected→connecting (reconnect), with fail reachable from any active
// state.
func newConnectionFSM() *fsm.FSM {
	return fsm.NewFSM(
		models.StateDiscovered.String(),
		fsm.Events{
			{
				Name: eventConnect,
				Src:  []string{models.StateDiscovered.String(), models.StateDisconnected.String()},
				Dst:  models.StateConnecting.String(),
			},
			{
				Name: eventConnected,
				Src:  []string{models.StateConnecting.String()},
				Dst:  models.StateConnected.String(),
			},
			{
				Name: eventSubscribe,
				Src:  []string{models.StateConnected.String()},
				Dst:  models.StateSubscribed.String(),
			},
			{
				Name: eventDrop,
				Src:  []string{models.StateSubscribed.String()},
				Dst:  models.StateDisconnected.String(),
			},
			{
				Name: eventFail,
				Src: []string{
					models.StateConnecting.String(),
					models.StateConnected.String(),
					models.StateDisconnected.String(),
				},
				Dst: models.StateFailed.String(),
			},
		},
		fsm.Callbacks{},
	)
}
