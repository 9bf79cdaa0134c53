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

package exporters

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	instana "github.com/instana/go-otel-exporter"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/opengater/authgate/internal/x/errorchain"
)

var (
	ErrUnsupportedTracesExporterType = errors.New("unsupported traces exporter type")
	ErrUnsupportedOTLPProtocol       = errors.New("unsupported OTLP protocol")
	ErrFailedCreatingTracesExporter  = errors.New("failed creating traces exporter")
	ErrFailedCreatingInstanaExporter = errors.New("failed creating instana exporter")
)

type factoryFunc func(ctx context.Context) (trace.SpanExporter, error)

// nolint: gochecknoglobals
var spanExporters = map[string]factoryFunc{
	"otlp": func(ctx context.Context) (trace.SpanExporter, error) {
		val := envOr("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL",
			envOr("OTEL_EXPORTER_OTLP_PROTOCOL", "http/protobuf"))

		switch val {
		case "grpc":
			return otlptracegrpc.New(ctx)
		case "http/protobuf":
			return otlptracehttp.New(ctx)
		default:
			return nil, errorchain.NewWithMessage(ErrUnsupportedOTLPProtocol, val)
		}
	},
	"zipkin": func(_ context.Context) (trace.SpanExporter, error) {
		return zipkin.New("")
	},
	// instana panics if the agent settings are missing in the environment
	"instana": func(_ context.Context) (exp trace.SpanExporter, err error) { // nolint: nonamedreturns
		defer func() {
			if r := recover(); r != nil {
				err = errorchain.NewWithMessage(ErrFailedCreatingInstanaExporter, fmt.Sprintf("%s", r))
			}
		}()

		return instana.New(), nil
	},
}

// NewSpanExporters creates the exporters named in OTEL_TRACES_EXPORTER. otlp is used if
// the variable is not set.
func NewSpanExporters(ctx context.Context) ([]trace.SpanExporter, error) {
	exporterNames, ok := os.LookupEnv("OTEL_TRACES_EXPORTER")
	if !ok || len(strings.TrimSpace(exporterNames)) == 0 {
		exporterNames = "otlp"
	}

	var exps []trace.SpanExporter // nolint: prealloc

	for _, name := range strings.Split(exporterNames, ",") {
		name = strings.TrimSpace(name)
		if name == "none" {
			return []trace.SpanExporter{noopExporter{}}, nil
		}

		create, ok := spanExporters[name]
		if !ok {
			return nil, errorchain.NewWithMessage(ErrUnsupportedTracesExporterType, name)
		}

		exporter, err := create(ctx)
		if err != nil {
			return nil, errorchain.NewWithMessage(ErrFailedCreatingTracesExporter, name).CausedBy(err)
		}

		exps = append(exps, exporter)
	}

	return exps, nil
}

func envOr(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && len(val) != 0 {
		return val
	}

	return defaultValue
}
