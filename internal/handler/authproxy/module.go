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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/opengater/authgate/internal/config"
	"github.com/opengater/authgate/internal/handler/fxlcm"
	"github.com/opengater/authgate/internal/upstream"
)

// nolint: gochecknoglobals
var Module = fx.Options(
	fx.Invoke(registerHooks),
)

type hooksArgs struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Configuration
	Logger     zerolog.Logger
	Registerer prometheus.Registerer
	Set        *upstream.Set
	Tracker    *upstream.Tracker
}

func registerHooks(args hooksArgs) error {
	srv, err := newService(args.Config, args.Registerer, args.Logger, args.Set, args.Tracker)
	if err != nil {
		return err
	}

	cfg := args.Config.Serve.Proxy
	lcm := &fxlcm.LifecycleManager{
		ServiceName:    "Auth Proxy",
		ServiceAddress: cfg.Address(),
		Server:         srv,
		Logger:         args.Logger,
		TLSConf:        cfg.TLS,
		Shutdowner:     args.Shutdowner,
	}

	args.Lifecycle.Append(fx.Hook{OnStart: lcm.Start, OnStop: lcm.Stop})

	return nil
}
