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
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opengater/authgate/internal/x/opentelemetry/tracecontext"
)

// New makes a request scoped logger available via zerolog.Ctx. The logger is
// enriched with the request id and the trace context, if present.
func New(logger zerolog.Logger, opts ...Option) func(http.Handler) http.Handler {
	conf := &config{requestIDHeader: "X-Request-Id"}

	for _, opt := range opts {
		opt(conf)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			ctx := req.Context()

			requestID := req.Header.Get(conf.requestIDHeader)
			if len(requestID) == 0 {
				requestID = uuid.NewString()
			}

			rw.Header().Set(conf.requestIDHeader, requestID)

			logCtx := logger.With().Str("_request_id", requestID)

			if traceCtx := tracecontext.Extract(ctx); traceCtx != nil {
				logCtx = logCtx.
					Str("_trace_id", traceCtx.TraceID).
					Str("_span_id", traceCtx.SpanID)

				if len(traceCtx.ParentID) != 0 {
					logCtx = logCtx.Str("_parent_id", traceCtx.ParentID)
				}
			}

			next.ServeHTTP(rw, req.WithContext(logCtx.Logger().WithContext(ctx)))
		})
	}
}
