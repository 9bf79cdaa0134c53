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
	"strings"

	"github.com/rs/zerolog"

	"github.com/opengater/authgate/internal/accesscontext"
	"github.com/opengater/authgate/internal/gateway"
)

type ErrorHandler interface {
	HandleError(rw http.ResponseWriter, req *http.Request, err error)
}

func New(opts ...Option) ErrorHandler {
	options := defaultOptions()

	for _, opt := range opts {
		opt(options)
	}

	return &errorHandler{opts: options}
}

type errorHandler struct {
	*opts
}

func (h *errorHandler) HandleError(rw http.ResponseWriter, req *http.Request, err error) {
	ctx := req.Context()

	switch {
	case errors.Is(err, gateway.ErrPayloadTooLarge):
		h.onPayloadTooLargeError(rw, req, err)
	case errors.Is(err, gateway.ErrMethodNotAllowed):
		var mnae *gateway.MethodNotAllowedError
		if errors.As(err, &mnae) && len(mnae.Allowed) != 0 {
			rw.Header().Set("Allow", strings.Join(mnae.Allowed, ", "))
		}

		h.onMethodNotAllowedError(rw, req, err)
	case errors.Is(err, gateway.ErrArgument):
		h.onArgumentError(rw, req, err)
	case errors.Is(err, gateway.ErrCommunicationTimeout),
		errors.Is(err, gateway.ErrCommunication),
		errors.Is(err, gateway.ErrNoUpstream):
		h.onCommunicationError(rw, req, err)
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("Internal error occurred")

		h.onInternalError(rw, req, err)
	}

	accesscontext.SetError(ctx, err)
}
