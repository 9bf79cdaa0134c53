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

package upstream

import (
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/fx"

	"github.com/opengater/authgate/internal/config"
)

// nolint: gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		newSet,
		newTracker,
	),
	fx.Invoke(registerHealthChecker),
)

func newSet(conf *config.Configuration, logger zerolog.Logger) (*Set, error) {
	set, err := NewSet(conf.Upstreams.Active().Upstreams)
	if err != nil {
		return nil, err
	}

	if set.Len() == 0 {
		logger.Warn().
			Str("_profile", conf.Upstreams.ActiveProfile).
			Msg("Active api profile has no upstreams. All proxied requests will fail")
	}

	return set, nil
}

func newTracker(lc fx.Lifecycle, conf *config.Configuration) *Tracker {
	tracker := NewTracker(conf.Upstreams.Cooldown)

	lc.Append(fx.Hook{OnStart: tracker.Start, OnStop: tracker.Stop})

	return tracker
}

func registerHealthChecker(
	lc fx.Lifecycle,
	conf *config.Configuration,
	set *Set,
	tracker *Tracker,
	logger zerolog.Logger,
) error {
	hcConf := conf.Upstreams.HealthCheck
	if !hcConf.Enabled || set.Len() == 0 {
		return nil
	}

	if !tracker.Enabled() {
		logger.Warn().Msg("Upstream health checks enabled without cooldown. Results are only logged")
	}

	checker, err := NewHealthChecker(hcConf, set, tracker,
		&http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
					return "Upstream health check " + req.URL.Host
				})),
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		logger)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{OnStart: checker.Start, OnStop: checker.Stop})

	return nil
}
