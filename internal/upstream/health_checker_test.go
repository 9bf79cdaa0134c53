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
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengater/authgate/internal/config"
)

func TestHealthCheckerCheckAll(t *testing.T) {
	var healthyCalls, failingCalls atomic.Int32

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		healthyCalls.Add(1)

		assert.Equal(t, "/api/health", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer healthy.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		failingCalls.Add(1)

		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	set, err := NewSet([]string{failing.URL + "/api", healthy.URL + "/api"})
	require.NoError(t, err)

	tracker := NewTracker(time.Hour)
	ups := set.Upstreams()

	tracker.MarkFailed(ups[1])

	checker, err := NewHealthChecker(config.HealthCheck{
		Enabled:    true,
		Path:       "/health",
		Interval:   time.Hour,
		Timeout:    time.Second,
		MaxRetries: 1,
	}, set, tracker, &http.Client{}, zerolog.Nop())
	require.NoError(t, err)

	checker.CheckAll(context.Background())

	assert.True(t, tracker.CoolingDown(ups[0]))
	assert.False(t, tracker.CoolingDown(ups[1]))
	assert.Equal(t, int32(1), healthyCalls.Load())
	assert.Equal(t, int32(2), failingCalls.Load())
}

func TestHealthCheckerLifecycle(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	set, err := NewSet([]string{srv.URL})
	require.NoError(t, err)

	checker, err := NewHealthChecker(config.HealthCheck{
		Enabled:  true,
		Path:     "/",
		Interval: time.Hour,
		Timeout:  time.Second,
	}, set, NewTracker(time.Minute), &http.Client{}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, checker.Start(context.TODO()))

	// first run is scheduled immediately
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, checker.Stop(context.TODO()))
}
