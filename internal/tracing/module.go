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

package tracing

import (
	"context"

	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	"github.com/opengater/authgate/internal/config"
	"github.com/opengater/authgate/internal/x"
	"github.com/opengater/authgate/internal/x/opentelemetry/exporters"
	"github.com/opengater/authgate/internal/x/opentelemetry/propagators"
)

// Module is invoked on app bootstrap.
// nolint: gochecknoglobals
var Module = fx.Options(
	fx.Invoke(initTraceProvider),
)

type lifecycle interface {
	Append(hook fx.Hook)
}

func initTraceProvider(lc fx.Lifecycle, conf config.TracingConfig, logger zerolog.Logger) error {
	return setupTracing(lc, conf, logger)
}

func setupTracing(lc lifecycle, conf config.TracingConfig, logger zerolog.Logger) error {
	if !conf.Enabled {
		logger.Info().Msg("OpenTelemetry tracing disabled.")

		return nil
	}

	res, err := newResource()
	if err != nil {
		return err
	}

	spanExporters, err := exporters.NewSpanExporters(context.Background())
	if err != nil {
		return err
	}

	processorOption := x.IfThenElse(conf.SpanProcessorType == config.SpanProcessorSimple,
		trace.WithSyncer,
		func(exporter trace.SpanExporter) trace.TracerProviderOption { return trace.WithBatcher(exporter) })

	opts := []trace.TracerProviderOption{trace.WithResource(res)}
	for _, exporter := range spanExporters {
		opts = append(opts, processorOption(exporter))
	}

	provider := trace.NewTracerProvider(opts...)

	otel.SetLogger(zerologr.New(&logger))
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagators.New())
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.Warn().Err(err).Msg("OpenTelemetry error")
	}))

	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
		logger.Info().Msg("Tearing down OpenTelemetry provider")

		return provider.Shutdown(ctx)
	}})

	logger.Info().Msg("OpenTelemetry tracing initialized.")

	return nil
}
