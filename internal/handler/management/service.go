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
	"fmt"
	"net/http"

	"github.com/ccoveille/go-safecast"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/opengater/authgate/internal/config"
	"github.com/opengater/authgate/internal/handler/middleware/http/accesslog"
	"github.com/opengater/authgate/internal/handler/middleware/http/dump"
	"github.com/opengater/authgate/internal/handler/middleware/http/errorhandler"
	"github.com/opengater/authgate/internal/handler/middleware/http/logger"
	"github.com/opengater/authgate/internal/handler/middleware/http/passthrough"
	prometheusmiddleware "github.com/opengater/authgate/internal/handler/middleware/http/prometheus"
	"github.com/opengater/authgate/internal/handler/middleware/http/recovery"
	"github.com/opengater/authgate/internal/upstream"
	"github.com/opengater/authgate/internal/x"
	"github.com/opengater/authgate/internal/x/httpx"
	"github.com/opengater/authgate/internal/x/loggeradapter"
)

func newService(
	conf *config.Configuration,
	reg prometheus.Registerer,
	log zerolog.Logger,
	set *upstream.Set,
	tracker *upstream.Tracker,
) *http.Server {
	cfg := conf.Serve.Management
	eh := errorhandler.New(errorhandler.FromConfig(cfg.Respond)...)
	opFilter := func(req *http.Request) bool { return req.URL.Path != EndpointHealth }

	hc := alice.New(
		recovery.New(eh),
		otelhttp.NewMiddleware("",
			otelhttp.WithServerName("management"),
			otelhttp.WithFilter(opFilter),
			otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
				return fmt.Sprintf("EntryPoint %s %s%s",
					x.IfThenElse(req.TLS != nil, "https", "http"), httpx.LocalAddress(req), req.URL.Path)
			}),
		),
		x.IfThenElseExec(conf.Metrics.Enabled,
			func() func(http.Handler) http.Handler {
				return prometheusmiddleware.New(
					prometheusmiddleware.WithServiceName("management"),
					prometheusmiddleware.WithRegisterer(reg),
					prometheusmiddleware.WithPathLabeler(endpointLabeler),
				)
			},
			func() func(http.Handler) http.Handler { return passthrough.New },
		),
		accesslog.New(log),
		logger.New(log),
		dump.New(),
		x.IfThenElseExec(cfg.CORS.Enabled(),
			func() func(http.Handler) http.Handler {
				return cors.New(
					cors.Options{
						AllowedOrigins:   cfg.CORS.AllowedOrigins,
						AllowedMethods:   cfg.CORS.AllowedMethods,
						AllowedHeaders:   cfg.CORS.AllowedHeaders,
						AllowCredentials: cfg.CORS.AllowCredentials,
						ExposedHeaders:   cfg.CORS.ExposedHeaders,
						MaxAge:           int(cfg.CORS.MaxAge.Seconds()),
					},
				).Handler
			},
			func() func(http.Handler) http.Handler { return passthrough.New },
		),
	).Then(newManagementHandler(conf.Upstreams.ActiveProfile, set, tracker, eh))

	return &http.Server{
		Handler:        hc,
		ReadTimeout:    cfg.Timeout.Read,
		WriteTimeout:   cfg.Timeout.Write,
		IdleTimeout:    cfg.Timeout.Idle,
		MaxHeaderBytes: safecast.MustConvert[int](uint64(cfg.BufferLimit.Read)),
		ErrorLog:       loggeradapter.NewStdLogger(log),
	}
}

func endpointLabeler(req *http.Request) string {
	switch req.URL.Path {
	case EndpointHealth, EndpointUpstreams:
		return req.URL.Path
	default:
		return "other"
	}
}
