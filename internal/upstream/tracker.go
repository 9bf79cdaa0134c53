// Copyright 2025 Dimitrij Drus <dadrus@gmx.de>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package upstream

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Tracker remembers upstreams which failed recently. Upstreams cooling down are moved
// behind the healthy ones, but never removed from the list to try. A tracker created
// with a non positive cooldown does nothing.
type Tracker struct {
	c *ttlcache.Cache[string, time.Time]
}

func NewTracker(cooldown time.Duration) *Tracker {
	if cooldown <= 0 {
		return &Tracker{}
	}

	return &Tracker{
		c: ttlcache.New[string, time.Time](
			ttlcache.WithTTL[string, time.Time](cooldown),
			ttlcache.WithDisableTouchOnHit[string, time.Time](),
		),
	}
}

func (t *Tracker) Enabled() bool { return t != nil && t.c != nil }

func (t *Tracker) Start(_ context.Context) error {
	if t.Enabled() {
		go t.c.Start()
	}

	return nil
}

func (t *Tracker) Stop(_ context.Context) error {
	if t.Enabled() {
		t.c.Stop()
	}

	return nil
}

func (t *Tracker) MarkFailed(up *Upstream) {
	if t.Enabled() {
		t.c.Set(up.String(), time.Now(), ttlcache.DefaultTTL)
	}
}

func (t *Tracker) MarkHealthy(up *Upstream) {
	if t.Enabled() {
		t.c.Delete(up.String())
	}
}

func (t *Tracker) CoolingDown(up *Upstream) bool {
	if !t.Enabled() {
		return false
	}

	item := t.c.Get(up.String())

	return item != nil && !item.IsExpired()
}

// Order stable partitions the given upstreams. The ones not cooling down come first.
func (t *Tracker) Order(upstreams []*Upstream) []*Upstream {
	if !t.Enabled() || len(upstreams) < 2 { // nolint: mnd
		return upstreams
	}

	healthy := make([]*Upstream, 0, len(upstreams))
	coolingDown := make([]*Upstream, 0, len(upstreams))

	for _, up := range upstreams {
		if t.CoolingDown(up) {
			coolingDown = append(coolingDown, up)
		} else {
			healthy = append(healthy, up)
		}
	}

	return append(healthy, coolingDown...)
}
