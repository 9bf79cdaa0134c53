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

package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestLoggerHandler(t *testing.T) {
	t.Parallel()

	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1}, SpanID: trace.SpanID{2}, TraceFlags: trace.FlagsSampled,
	})

	for uc, tc := range map[string]struct {
		opts    []Option
		prepare func(t *testing.T, req *http.Request) *http.Request
		assert  func(t *testing.T, rw *httptest.ResponseRecorder, entry map[string]any)
	}{
		"generated request id without tracing": {
			assert: func(t *testing.T, rw *httptest.ResponseRecorder, entry map[string]any) {
				t.Helper()

				id := rw.Header().Get("X-Request-Id")
				require.NoError(t, uuid.Validate(id))
				assert.Equal(t, id, entry["_request_id"])
				assert.NotContains(t, entry, "_trace_id")
				assert.Equal(t, "hello", entry["message"])
			},
		},
		"request id from custom header with trace context": {
			opts: []Option{WithRequestIDHeader("X-Correlation-Id")},
			prepare: func(t *testing.T, req *http.Request) *http.Request {
				t.Helper()

				req.Header.Set("X-Correlation-Id", "foobar")

				return req.WithContext(trace.ContextWithRemoteSpanContext(req.Context(), parent))
			},
			assert: func(t *testing.T, rw *httptest.ResponseRecorder, entry map[string]any) {
				t.Helper()

				assert.Equal(t, "foobar", rw.Header().Get("X-Correlation-Id"))
				assert.Equal(t, "foobar", entry["_request_id"])
				assert.Equal(t, parent.TraceID().String(), entry["_trace_id"])
				assert.Equal(t, parent.SpanID().String(), entry["_span_id"])
				assert.NotContains(t, entry, "_parent_id")
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			buf := &bytes.Buffer{}
			logger := zerolog.New(buf)

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.prepare != nil {
				req = tc.prepare(t, req)
			}

			rw := httptest.NewRecorder()
			handler := New(logger, tc.opts...)(http.HandlerFunc(func(_ http.ResponseWriter, req *http.Request) {
				zerolog.Ctx(req.Context()).Info().Msg("hello")
			}))

			// WHEN
			handler.ServeHTTP(rw, req)

			// THEN
			var entry map[string]any

			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			tc.assert(t, rw, entry)
		})
	}
}
