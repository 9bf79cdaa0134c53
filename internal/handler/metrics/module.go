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

package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/opengater/authgate/internal/config"
	"github.com/opengater/authgate/internal/handler/fxlcm"
)

const readHeaderTimeout = 5 * time.Second

var Module = fx.Options( // nolint: gochecknoglobals
	fx.Invoke(registerHooks),
)

type lifecycleManager interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type noopManager struct{}

func (noopManager) Start(context.Context) error { return nil }
func (noopManager) Stop(context.Context) error  { return nil }

type hooksArgs struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Configuration
	Logger     zerolog.Logger
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

func registerHooks(args hooksArgs) {
	lcm := newLifecycleManager(args.Config, args.Registerer, args.Gatherer, args.Logger, args.Shutdowner)

	args.Lifecycle.Append(fx.Hook{OnStart: lcm.Start, OnStop: lcm.Stop})
}

func newLifecycleManager(
	conf *config.Configuration,
	reg prometheus.Registerer,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger,
	shutdowner fx.Shutdowner,
) lifecycleManager {
	cfg := conf.Metrics

	if !cfg.Enabled {
		logger.Info().Msg("Metrics service disabled")

		return noopManager{}
	}

	return &fxlcm.LifecycleManager{
		ServiceName:    "Metrics",
		ServiceAddress: cfg.Address(),
		Server:         newService(cfg, reg, gatherer, logger),
		Logger:         logger,
		Shutdowner:     shutdowner,
	}
}
