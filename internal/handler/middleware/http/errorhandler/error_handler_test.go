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

package errorhandler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengater/authgate/internal/accesscontext"
	"github.com/opengater/authgate/internal/config"
	"github.com/opengater/authgate/internal/gateway"
	"github.com/opengater/authgate/internal/x/errorchain"
)

func TestErrorHandlerHandleError(t *testing.T) {
	t.Parallel()

	for uc, tc := range map[string]struct {
		handler   ErrorHandler
		err       error
		accept    string
		expCode   int
		expBody   string
		expHeader http.Header
	}{
		"argument error default": {
			handler: New(),
			err:     gateway.ErrArgument,
			expCode: http.StatusBadRequest,
		},
		"argument error overridden": {
			handler: New(WithArgumentErrorCode(http.StatusUnprocessableEntity)),
			err:     gateway.ErrArgument,
			expCode: http.StatusUnprocessableEntity,
		},
		"argument error verbose": {
			handler: New(WithVerboseErrors(true)),
			err:     errorchain.NewWithMessage(gateway.ErrArgument, "bad path"),
			accept:  "text/html",
			expCode: http.StatusBadRequest,
			expBody: "<p>argument error: bad path</p>",
		},
		"communication error default": {
			handler: New(),
			err:     gateway.ErrCommunication,
			expCode: http.StatusBadGateway,
		},
		"communication timeout error overridden": {
			handler: New(WithCommunicationErrorCode(http.StatusGatewayTimeout)),
			err:     gateway.ErrCommunicationTimeout,
			expCode: http.StatusGatewayTimeout,
		},
		"no upstream error": {
			handler: New(),
			err:     gateway.ErrNoUpstream,
			expCode: http.StatusBadGateway,
		},
		"payload too large error verbose as json": {
			handler: New(WithVerboseErrors(true)),
			err:     errorchain.NewWithMessage(gateway.ErrPayloadTooLarge, "limit is 10MB"),
			accept:  "application/json",
			expCode: http.StatusRequestEntityTooLarge,
			expBody: `{"code":"payloadTooLarge","message":"limit is 10MB"}`,
		},
		"payload too large error overridden": {
			handler: New(WithPayloadTooLargeErrorCode(http.StatusBadRequest)),
			err:     gateway.ErrPayloadTooLarge,
			expCode: http.StatusBadRequest,
		},
		"method not allowed error with allowed methods": {
			handler: New(),
			err: errorchain.New(gateway.ErrArgument).
				CausedBy(&gateway.MethodNotAllowedError{Method: "TRACE", Allowed: []string{"GET", "POST"}}),
			expCode:   http.StatusMethodNotAllowed,
			expHeader: http.Header{"Allow": []string{"GET, POST"}},
		},
		"method not allowed error overridden": {
			handler: New(WithMethodNotAllowedErrorCode(http.StatusNotFound)),
			err:     gateway.ErrMethodNotAllowed,
			expCode: http.StatusNotFound,
		},
		"internal error default": {
			handler: New(),
			err:     errors.New("test error"),
			expCode: http.StatusInternalServerError,
		},
		"internal error verbose as plain text": {
			handler: New(WithVerboseErrors(true)),
			err:     errors.New("test error"),
			accept:  "text/plain",
			expCode: http.StatusInternalServerError,
			expBody: "test error",
		},
		"internal error overridden": {
			handler: New(WithInternalServerErrorCode(http.StatusServiceUnavailable)),
			err:     gateway.ErrInternal,
			expCode: http.StatusServiceUnavailable,
		},
	} {
		t.Run(uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			ctx := accesscontext.New(t.Context())
			req := httptest.NewRequestWithContext(ctx, http.MethodGet, "/api/auth/login", nil)
			rw := httptest.NewRecorder()

			if len(tc.accept) != 0 {
				req.Header.Set("Accept", tc.accept)
			}

			// WHEN
			tc.handler.HandleError(rw, req, tc.err)

			// THEN
			assert.Equal(t, tc.expCode, rw.Code)
			assert.Equal(t, tc.expBody, rw.Body.String())
			require.ErrorIs(t, accesscontext.Error(ctx), tc.err)

			for name, values := range tc.expHeader {
				assert.Equal(t, values, rw.Header().Values(name))
			}

			if len(tc.expBody) != 0 {
				assert.Equal(t, "nosniff", rw.Header().Get("X-Content-Type-Options"))
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	// GIVEN
	conf := config.RespondConfig{Verbose: true}
	conf.With.CommunicationError.Code = http.StatusServiceUnavailable

	handler := New(FromConfig(conf)...)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/xml")

	rw := httptest.NewRecorder()

	// WHEN
	handler.HandleError(rw, req, errorchain.NewWithMessage(gateway.ErrCommunication, "upstream down"))

	// THEN
	assert.Equal(t, http.StatusServiceUnavailable, rw.Code)
	assert.Equal(t, "<error><code>communicationError</code><message>upstream down</message></error>",
		rw.Body.String())
	assert.Equal(t, "application/xml", rw.Header().Get("Content-Type"))
}
