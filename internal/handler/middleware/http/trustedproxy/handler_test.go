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

package trustedproxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/justinas/alice"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengater/authgate/internal/x/testsupport"
)

func TestTrustedProxyHandlerExecution(t *testing.T) {
	t.Parallel()

	for uc, tc := range map[string]struct {
		proxies    []string
		remoteAddr string
		shouldDrop bool
		assertLogs func(t *testing.T, logs string)
	}{
		"no trusted proxies": {
			remoteAddr: "127.0.0.1:43210",
			shouldDrop: true,
		},
		"unparsable entry": {
			proxies:    []string{"/128"},
			remoteAddr: "127.0.0.1:43210",
			shouldDrop: true,
			assertLogs: func(t *testing.T, logs string) {
				t.Helper()

				assert.Contains(t, logs, "could not be parsed")
			},
		},
		"single trusted address": {
			proxies:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:43210",
		},
		"trusted network": {
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.10.1.2:43210",
		},
		"ipv6 network": {
			proxies:    []string{"fd00::/8"},
			remoteAddr: "[fd00::1]:43210",
		},
		"ipv4 mapped ipv6 source": {
			proxies:    []string{"192.168.1.0/24"},
			remoteAddr: "[::ffff:192.168.1.7]:43210",
		},
		"source outside of trusted network": {
			proxies:    []string{"172.16.0.0/12"},
			remoteAddr: "192.168.1.7:43210",
			shouldDrop: true,
		},
		"insecure network": {
			proxies:    []string{"0.0.0.0/0"},
			remoteAddr: "192.168.1.7:43210",
			assertLogs: func(t *testing.T, logs string) {
				t.Helper()

				assert.Contains(t, logs, "insecure networks")
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			tb := &testsupport.TestingLog{TB: t}
			logger := zerolog.New(zerolog.TestWriter{T: tb})

			send := http.Header{
				"X-Forwarded-Proto": []string{"https"},
				"X-Forwarded-Host":  []string{"dashboard.example.com"},
				"X-Forwarded-For":   []string{"172.17.1.2"},
				"X-Real-Ip":         []string{"172.17.1.2"},
				"Forwarded":         []string{"for=172.17.1.2;proto=https"},
				"Authorization":     []string{"Bearer foo"},
			}

			var received http.Header

			handler := alice.New(New(logger, tc.proxies...)).
				ThenFunc(func(rw http.ResponseWriter, req *http.Request) {
					received = req.Header.Clone()

					rw.WriteHeader(http.StatusNoContent)
				})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.RemoteAddr = tc.remoteAddr
			req.Header = send.Clone()

			// WHEN
			handler.ServeHTTP(httptest.NewRecorder(), req)

			// THEN
			require.NotNil(t, received)
			assert.Equal(t, "Bearer foo", received.Get("Authorization"))

			for name := range send {
				if name == "Authorization" {
					continue
				}

				if tc.shouldDrop {
					assert.Empty(t, received.Get(name), name)
				} else {
					assert.Equal(t, send.Get(name), received.Get(name), name)
				}
			}

			if tc.assertLogs != nil {
				tc.assertLogs(t, tb.CollectedLog())
			}
		})
	}
}
