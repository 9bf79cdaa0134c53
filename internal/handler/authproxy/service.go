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
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/ccoveille/go-safecast"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/opengater/authgate/internal/config"
	"github.com/opengater/authgate/internal/gateway"
	"github.com/opengater/authgate/internal/handler/middleware/http/accesslog"
	"github.com/opengater/authgate/internal/handler/middleware/http/dump"
	"github.com/opengater/authgate/internal/handler/middleware/http/errorhandler"
	"github.com/opengater/authgate/internal/handler/middleware/http/logger"
	"github.com/opengater/authgate/internal/handler/middleware/http/passthrough"
	prometheusmiddleware "github.com/opengater/authgate/internal/handler/middleware/http/prometheus"
	"github.com/opengater/authgate/internal/handler/middleware/http/recovery"
	"github.com/opengater/authgate/internal/handler/middleware/http/trustedproxy"
	"github.com/opengater/authgate/internal/upstream"
	"github.com/opengater/authgate/internal/x"
	"github.com/opengater/authgate/internal/x/errorchain"
	"github.com/opengater/authgate/internal/x/httpx"
	"github.com/opengater/authgate/internal/x/loggeradapter"
)

func newService(
	conf *config.Configuration,
	registerer prometheus.Registerer,
	log zerolog.Logger,
	set *upstream.Set,
	tracker *upstream.Tracker,
) (*http.Server, error) {
	cfg := conf.Serve.Proxy
	proxyConf := conf.Proxy
	eh := errorhandler.New(errorhandler.FromConfig(cfg.Respond)...)

	appConfigHandler, err := newAppConfigHandler(conf.App, conf.Upstreams)
	if err != nil {
		return nil, err
	}

	proxy := &handler{
		conf:    proxyConf,
		sticky:  conf.Upstreams.Sticky,
		cors:    cfg.CORS,
		set:     set,
		tracker: tracker,
		client:  newUpstreamClient(proxyConf),
		metrics: newMetrics(registerer),
		eh:      eh,
	}

	hc := alice.New(
		x.IfThenElseExec(cfg.TrustedProxies != nil,
			func() func(http.Handler) http.Handler {
				return trustedproxy.New(log, *cfg.TrustedProxies...)
			},
			func() func(http.Handler) http.Handler { return passthrough.New },
		),
		recovery.New(eh),
		otelhttp.NewMiddleware("",
			otelhttp.WithServerName(cfg.Address()),
			otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
				return fmt.Sprintf("EntryPoint %s %s%s",
					x.IfThenElse(req.TLS != nil, "https", "http"), httpx.LocalAddress(req), req.URL.Path)
			}),
		),
		prometheusmiddleware.New(
			prometheusmiddleware.WithRegisterer(registerer),
			prometheusmiddleware.WithServiceName("proxy"),
			prometheusmiddleware.WithPathLabeler(routeLabeler(proxyConf)),
		),
		accesslog.New(log),
		logger.New(log),
		dump.New(),
		x.IfThenElseExec(cfg.CORS.Enabled(),
			func() func(http.Handler) http.Handler {
				return cors.New(corsOptions(cfg.CORS)).Handler
			},
			func() func(http.Handler) http.Handler { return passthrough.New },
		),
	).Then(newRouter(proxyConf, proxy, appConfigHandler, eh))

	return &http.Server{
		Handler:        hc,
		ReadTimeout:    cfg.Timeout.Read,
		WriteTimeout:   cfg.Timeout.Write,
		IdleTimeout:    cfg.Timeout.Idle,
		MaxHeaderBytes: safecast.MustConvert[int](uint64(cfg.BufferLimit.Read)),
		ErrorLog:       loggeradapter.NewStdLogger(log),
	}, nil
}

// corsOptions lets HEAD requests through, as these are forwarded like GET. A "*" origin
// is answered with the request origin if credentials are allowed, as browsers reject
// "*" for credentialed requests.
func corsOptions(conf *config.CORS) cors.Options {
	methods := slices.Clone(conf.AllowedMethods)
	if !slices.ContainsFunc(methods, func(method string) bool {
		return strings.EqualFold(method, http.MethodHead)
	}) {
		methods = append(methods, http.MethodHead)
	}

	opts := cors.Options{
		AllowedOrigins:     conf.AllowedOrigins,
		AllowedMethods:     methods,
		AllowedHeaders:     conf.AllowedHeaders,
		AllowCredentials:   conf.AllowCredentials,
		ExposedHeaders:     conf.ExposedHeaders,
		MaxAge:             int(conf.MaxAge.Seconds()),
		OptionsPassthrough: true,
	}

	if conf.AllowCredentials && slices.Contains(conf.AllowedOrigins, "*") {
		opts.AllowOriginFunc = func(string) bool { return true }
	}

	return opts
}

func newRouter(
	conf config.ProxyConfig,
	proxy http.Handler,
	appConfigHandler http.Handler,
	eh errorhandler.ErrorHandler,
) http.Handler {
	prefix := strings.TrimRight(conf.PathPrefix, "/")
	appConfigMethods := []string{http.MethodGet, http.MethodHead, http.MethodOptions}

	router := mux.NewRouter().SkipClean(true).UseEncodedPath()

	router.Path(conf.AppConfigPath).Methods(appConfigMethods...).Handler(appConfigHandler)
	if len(prefix) == 0 {
		router.PathPrefix("/").Handler(proxy)
	} else {
		router.Path(prefix).Handler(proxy)
		router.PathPrefix(prefix + "/").Handler(proxy)
	}

	router.MethodNotAllowedHandler = http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		eh.HandleError(rw, req, errorchain.New(gateway.ErrArgument).
			CausedBy(&gateway.MethodNotAllowedError{Method: req.Method, Allowed: appConfigMethods}))
	})

	return router
}

func routeLabeler(conf config.ProxyConfig) prometheusmiddleware.PathLabeler {
	prefix := strings.TrimRight(conf.PathPrefix, "/")

	return func(req *http.Request) string {
		switch path := req.URL.Path; {
		case path == conf.AppConfigPath:
			return conf.AppConfigPath
		case path == prefix || strings.HasPrefix(path, prefix+"/"):
			return prefix
		default:
			return "other"
		}
	}
}
