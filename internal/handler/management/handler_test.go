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

package management

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengater/authgate/internal/handler/middleware/http/errorhandler"
	"github.com/opengater/authgate/internal/upstream"
)

func TestManagementHandler(t *testing.T) {
	t.Parallel()

	set, err := upstream.NewSet([]string{"https://a.example.com/api", "https://b.example.com/api"})
	require.NoError(t, err)

	tracker := upstream.NewTracker(time.Hour)
	tracker.MarkFailed(set.Upstreams()[1])

	handler := newManagementHandler("cdn", set, tracker, errorhandler.New())

	for uc, tc := range map[string]struct {
		method string
		path   string
		header http.Header
		assert func(t *testing.T, rw *httptest.ResponseRecorder)
	}{
		"health": {
			method: http.MethodGet,
			path:   EndpointHealth,
			assert: func(t *testing.T, rw *httptest.ResponseRecorder) {
				t.Helper()

				assert.Equal(t, http.StatusOK, rw.Code)
				assert.Equal(t, "application/json", rw.Header().Get("Content-Type"))
				assert.JSONEq(t, `{"status":"ok"}`, rw.Body.String())
			},
		},
		"health with unsupported method": {
			method: http.MethodPost,
			path:   EndpointHealth,
			assert: func(t *testing.T, rw *httptest.ResponseRecorder) {
				t.Helper()

				assert.Equal(t, http.StatusMethodNotAllowed, rw.Code)
				assert.Equal(t, http.MethodGet, rw.Header().Get("Allow"))
			},
		},
		"upstreams": {
			method: http.MethodGet,
			path:   EndpointUpstreams,
			assert: func(t *testing.T, rw *httptest.ResponseRecorder) {
				t.Helper()

				assert.Equal(t, http.StatusOK, rw.Code)
				assert.NotEmpty(t, rw.Header().Get("ETag"))
				assert.JSONEq(t, `{
					"profile": "cdn",
					"upstreams": [
						{"url": "https://a.example.com/api", "cooling_down": false},
						{"url": "https://b.example.com/api", "cooling_down": true}
					]
				}`, rw.Body.String())
			},
		},
		"unknown endpoint": {
			method: http.MethodGet,
			path:   "/.well-known/jwks",
			assert: func(t *testing.T, rw *httptest.ResponseRecorder) {
				t.Helper()

				assert.Equal(t, http.StatusNotFound, rw.Code)
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			t.Parallel()

			rw := httptest.NewRecorder()

			handler.ServeHTTP(rw, httptest.NewRequest(tc.method, tc.path, nil))

			tc.assert(t, rw)
		})
	}
}

func TestUpstreamsEndpointSupportsConditionalRequests(t *testing.T) {
	t.Parallel()

	// GIVEN
	set, err := upstream.NewSet([]string{"https://a.example.com/api"})
	require.NoError(t, err)

	tracker := upstream.NewTracker(time.Hour)
	handler := newManagementHandler("cdn", set, tracker, errorhandler.New())

	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, EndpointUpstreams, nil))

	etag := rw.Header().Get("ETag")
	require.NotEmpty(t, etag)

	// WHEN
	req := httptest.NewRequest(http.MethodGet, EndpointUpstreams, nil)
	req.Header.Set("If-None-Match", etag)

	rw = httptest.NewRecorder()
	handler.ServeHTTP(rw, req)

	// THEN
	assert.Equal(t, http.StatusNotModified, rw.Code)

	// WHEN
	tracker.MarkFailed(set.Upstreams()[0])

	rw = httptest.NewRecorder()
	handler.ServeHTTP(rw, req)

	// THEN
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.NotEqual(t, etag, rw.Header().Get("ETag"))
}

func TestEndpointLabeler(t *testing.T) {
	t.Parallel()

	for path, exp := range map[string]string{
		EndpointHealth:    EndpointHealth,
		EndpointUpstreams: EndpointUpstreams,
		"/foo/bar":        "other",
	} {
		assert.Equal(t, exp, endpointLabeler(httptest.NewRequest(http.MethodGet, path, nil)))
	}
}
