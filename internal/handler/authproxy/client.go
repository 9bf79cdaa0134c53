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
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/opengater/authgate/internal/config"
)

// newUpstreamClient creates the client used to contact upstreams. Redirects are handed
// to the caller as is, and compressed bodies are decoded by the transport.
func newUpstreamClient(conf config.ProxyConfig) *http.Client {
	dialer := &net.Dialer{
		Timeout:   conf.Timeout,
		KeepAlive: 30 * time.Second, // nolint: mnd
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxConnsPerHost:       conf.ConnectionsLimit.MaxPerHost,
		MaxIdleConns:          conf.ConnectionsLimit.MaxIdle,
		MaxIdleConnsPerHost:   conf.ConnectionsLimit.MaxIdlePerHost,
		IdleConnTimeout:       90 * time.Second, // nolint: mnd
		TLSHandshakeTimeout:   10 * time.Second, // nolint: mnd
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: otelhttp.NewTransport(transport,
			otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
				return "Upstream " + req.Method + " " + req.URL.Host
			})),
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		Timeout:       conf.Timeout,
	}
}
