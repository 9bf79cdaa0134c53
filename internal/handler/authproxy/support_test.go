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

package authproxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/opengater/authgate/internal/config"
	"github.com/opengater/authgate/internal/handler/middleware/http/errorhandler"
	"github.com/opengater/authgate/internal/upstream"
)

type recordedRequest struct {
	method string
	uri    string
	header http.Header
	body   string
}

type backend struct {
	srv      *httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

// newBackend starts a test upstream. A nil respond function results in an upstream,
// which is not reachable.
func newBackend(t *testing.T, respond http.HandlerFunc) *backend {
	t.Helper()

	b := &backend{}
	b.srv = httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)

		b.mu.Lock()
		b.requests = append(b.requests, recordedRequest{
			method: req.Method,
			uri:    req.URL.RequestURI(),
			header: req.Header.Clone(),
			body:   string(body),
		})
		b.mu.Unlock()

		respond(rw, req)
	}))

	if respond == nil {
		b.srv.Close()
	} else {
		t.Cleanup(b.srv.Close)
	}

	return b
}

func (b *backend) baseURL() string { return b.srv.URL + "/api" }

func (b *backend) received() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]recordedRequest(nil), b.requests...)
}

func respondWith(code int, body string, header ...string) http.HandlerFunc {
	return func(rw http.ResponseWriter, _ *http.Request) {
		for i := 0; i+1 < len(header); i += 2 {
			rw.Header().Add(header[i], header[i+1])
		}

		rw.WriteHeader(code)
		_, _ = rw.Write([]byte(body))
	}
}

func testProxyConfig() config.ProxyConfig {
	return config.ProxyConfig{
		PathPrefix:       "/api/auth",
		AppConfigPath:    "/api/config",
		MaxBodySize:      bytesize.KB,
		FailoverStatuses: []int{404, 500, 502, 503, 504},
		AuthStatuses:     []int{401, 403},
		UserAgent:        config.DefaultUserAgent,
		Accept:           config.DefaultAccept,
		Timeout:          2 * time.Second,
	}
}

func testStickyConfig() config.StickyCookie {
	return config.StickyCookie{
		Name:     config.DefaultStickyCookieName,
		Path:     "/",
		MaxAge:   24 * time.Hour,
		SameSite: config.SameSite(http.SameSiteLaxMode),
	}
}

func newTestHandler(t *testing.T, upstreams []string) *handler {
	t.Helper()

	set, err := upstream.NewSet(upstreams)
	require.NoError(t, err)

	conf := testProxyConfig()

	return &handler{
		conf:    conf,
		sticky:  testStickyConfig(),
		set:     set,
		tracker: upstream.NewTracker(0),
		client:  newUpstreamClient(conf),
		metrics: newMetrics(prometheus.NewRegistry()),
		eh:      errorhandler.New(),
	}
}
