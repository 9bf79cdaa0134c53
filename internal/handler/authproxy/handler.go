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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/opengater/authgate/internal/accesscontext"
	"github.com/opengater/authgate/internal/config"
	"github.com/opengater/authgate/internal/gateway"
	"github.com/opengater/authgate/internal/handler/middleware/http/errorhandler"
	"github.com/opengater/authgate/internal/upstream"
	"github.com/opengater/authgate/internal/x"
	"github.com/opengater/authgate/internal/x/errorchain"
	"github.com/opengater/authgate/internal/x/httpx"
)

const unknownProxyError = "Unknown proxy error"

// nolint: gochecknoglobals
var allowedMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

type outcome string

const (
	outcomeSuccess  outcome = "success"
	outcomeAuth     outcome = "auth"
	outcomeFailover outcome = "failover"
	outcomeError    outcome = "error"
)

type handler struct {
	conf    config.ProxyConfig
	sticky  config.StickyCookie
	cors    *config.CORS
	set     *upstream.Set
	tracker *upstream.Tracker
	client  *http.Client
	metrics *metrics
	eh      errorhandler.ErrorHandler
}

func (h *handler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodOptions:
		h.answerPreflight(rw)
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		h.proxyRequest(rw, req)
	default:
		h.eh.HandleError(rw, req, errorchain.New(gateway.ErrArgument).
			CausedBy(&gateway.MethodNotAllowedError{Method: req.Method, Allowed: allowedMethods}))
	}
}

// answerPreflight completes the CORS headers set by the cors middleware, if the origin
// has been accepted, with the full lists of allowed methods and headers.
func (h *handler) answerPreflight(rw http.ResponseWriter) {
	header := rw.Header()

	if h.cors.Enabled() && len(header.Get("Access-Control-Allow-Origin")) != 0 {
		header.Set("Access-Control-Allow-Methods", strings.Join(h.cors.AllowedMethods, ", "))
		header.Set("Access-Control-Allow-Headers", strings.Join(h.cors.AllowedHeaders, ", "))
	}

	rw.WriteHeader(http.StatusNoContent)
}

func (h *handler) proxyRequest(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := zerolog.Ctx(ctx)

	body, err := h.readBody(rw, req)
	if err != nil {
		h.eh.HandleError(rw, req, err)

		return
	}

	var (
		stickyValue  string
		lastErr      string
		lastAuth     *bufferedResponse
		lastAuthFrom *upstream.Upstream
		attempts     int
	)

	if cookie, err := req.Cookie(h.sticky.Name); err == nil {
		stickyValue = cookie.Value
	}

	path := upstream.StripPrefix(req.URL.EscapedPath(), h.conf.PathPrefix)
	query := req.URL.Query()

	for _, up := range h.tracker.Order(h.set.Preferred(stickyValue)) {
		attempts++

		resp, oc, err := h.attempt(ctx, req, up, path, query, body)

		switch oc {
		case outcomeSuccess:
			logger.Debug().Str("_upstream", up.String()).Int("_status", resp.status).
				Msg("Upstream answered")

			accesscontext.SetAttempts(ctx, attempts)
			h.writeResponse(rw, req, up, stickyValue, resp)

			return
		case outcomeAuth:
			logger.Debug().Str("_upstream", up.String()).Int("_status", resp.status).
				Msg("Upstream answered with an authentication response, trying next one")

			lastAuth, lastAuthFrom = resp, up
		case outcomeFailover:
			lastErr = fmt.Sprintf("Upstream %s responded %d", up, resp.status)

			logger.Warn().Str("_upstream", up.String()).Int("_status", resp.status).
				Msg("Upstream failed, trying next one")
		case outcomeError:
			if ctx.Err() != nil {
				logger.Debug().Err(err).Msg("Request canceled by the client")
				accesscontext.SetError(ctx, ctx.Err())

				return
			}

			lastErr = err.Error()

			logger.Warn().Err(err).Str("_upstream", up.String()).
				Msg("Upstream not reachable, trying next one")
		}
	}

	accesscontext.SetAttempts(ctx, attempts)

	if lastAuth != nil {
		h.metrics.exhausted.WithLabelValues("auth_response").Inc()
		h.writeResponse(rw, req, lastAuthFrom, stickyValue, lastAuth)

		return
	}

	if len(lastErr) == 0 {
		lastErr = unknownProxyError
	}

	h.metrics.exhausted.WithLabelValues(x.IfThenElse(attempts == 0, "no_upstream", "upstream_errors")).Inc()
	logger.Warn().Int("_attempts", attempts).Str("_reason", lastErr).Msg("No upstream could serve the request")
	accesscontext.SetError(ctx, errorchain.NewWithMessage(gateway.ErrNoUpstream, lastErr))

	writeProxyError(rw, lastErr)
}

func (h *handler) readBody(rw http.ResponseWriter, req *http.Request) ([]byte, error) {
	if req.Method == http.MethodGet || req.Method == http.MethodHead || req.Body == nil {
		return nil, nil
	}

	limit := int64(h.conf.MaxBodySize)
	if limit > 0 && req.ContentLength > limit {
		return nil, errorchain.NewWithMessagef(gateway.ErrPayloadTooLarge,
			"request body exceeds %s", h.conf.MaxBodySize)
	}

	reader := req.Body
	if limit > 0 {
		reader = http.MaxBytesReader(rw, req.Body, limit)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, errorchain.NewWithMessagef(gateway.ErrPayloadTooLarge,
				"request body exceeds %s", h.conf.MaxBodySize)
		}

		return nil, errorchain.NewWithMessage(gateway.ErrArgument, "failed reading request body").
			CausedBy(err)
	}

	return body, nil
}

func (h *handler) attempt(
	ctx context.Context,
	req *http.Request,
	up *upstream.Upstream,
	path string,
	query url.Values,
	body []byte,
) (*bufferedResponse, outcome, error) {
	start := time.Now()

	resp, err := h.forward(ctx, req, up, path, query, body)

	h.metrics.duration.WithLabelValues(up.String()).Observe(time.Since(start).Seconds())

	var oc outcome

	switch {
	case err != nil:
		oc = outcomeError
	case h.conf.IsAuthStatus(resp.status):
		oc = outcomeAuth
	case h.conf.IsFailoverStatus(resp.status):
		oc = outcomeFailover
	default:
		oc = outcomeSuccess
	}

	h.metrics.attempts.WithLabelValues(up.String(), string(oc)).Inc()

	switch oc {
	case outcomeError, outcomeFailover:
		if ctx.Err() == nil {
			h.tracker.MarkFailed(up)
		}
	case outcomeSuccess, outcomeAuth:
		h.tracker.MarkHealthy(up)
	}

	return resp, oc, err
}

func (h *handler) forward(
	ctx context.Context,
	req *http.Request,
	up *upstream.Upstream,
	path string,
	query url.Values,
	body []byte,
) (*bufferedResponse, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	target := upstream.BuildURL(up, path, query)

	outReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), bodyReader)
	if err != nil {
		return nil, err
	}

	httpx.CopyHeaders(outReq.Header, req.Header, func(name string) bool {
		return strings.EqualFold(name, "Accept-Encoding")
	})

	origin := up.Origin()
	outReq.Header.Set("Origin", origin)
	outReq.Header.Set("Referer", origin+"/")
	outReq.Header.Set("User-Agent", h.conf.UserAgent)
	outReq.Header.Set("Accept", h.conf.Accept)

	zerolog.Ctx(ctx).Debug().Str("_url", target.String()).Msg("Forwarding request")

	resp, err := h.client.Do(outReq)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &bufferedResponse{status: resp.StatusCode, header: resp.Header, body: respBody}, nil
}
