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
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/fx"

	"github.com/opengater/authgate/internal/config"
	"github.com/opengater/authgate/internal/x"
	"github.com/opengater/authgate/internal/x/opentelemetry/exporters"
	"github.com/opengater/authgate/internal/x/testsupport"
)

type lifecycleMock struct{ mock.Mock }

func (m *lifecycleMock) Append(hook fx.Hook) { m.Called(hook) }

func TestSetupTracing(t *testing.T) {
	for uc, tc := range map[string]struct {
		conf       config.TracingConfig
		setupMocks func(t *testing.T, lc *lifecycleMock)
		assert     func(t *testing.T, err error, propagator propagation.TextMapPropagator, logged string)
	}{
		"tracing disabled": {
			conf: config.TracingConfig{Enabled: false},
			assert: func(t *testing.T, err error, _ propagation.TextMapPropagator, logged string) {
				t.Helper()

				require.NoError(t, err)
				assert.Contains(t, logged, "tracing disabled")
			},
		},
		"unsupported exporter": {
			conf: config.TracingConfig{Enabled: true},
			setupMocks: func(t *testing.T, _ *lifecycleMock) {
				t.Helper()

				t.Setenv("OTEL_TRACES_EXPORTER", "foobar")
			},
			assert: func(t *testing.T, err error, _ propagation.TextMapPropagator, _ string) {
				t.Helper()

				require.ErrorIs(t, err, exporters.ErrUnsupportedTracesExporterType)
			},
		},
		"failing exporter creation": {
			conf: config.TracingConfig{Enabled: true},
			setupMocks: func(t *testing.T, _ *lifecycleMock) {
				t.Helper()

				// instana requires further env vars, which are not set
				t.Setenv("OTEL_TRACES_EXPORTER", "instana")
			},
			assert: func(t *testing.T, err error, _ propagation.TextMapPropagator, _ string) {
				t.Helper()

				require.ErrorIs(t, err, exporters.ErrFailedCreatingTracesExporter)
			},
		},
		"tracing initialized with simple span processor": {
			conf: config.TracingConfig{Enabled: true, SpanProcessorType: config.SpanProcessorSimple},
			setupMocks: func(t *testing.T, lc *lifecycleMock) {
				t.Helper()

				t.Setenv("OTEL_TRACES_EXPORTER", "none")
				t.Setenv("OTEL_PROPAGATORS", "")

				lc.On("Append", mock.MatchedBy(func(hook fx.Hook) bool {
					return hook.OnStop(context.Background()) == nil
				}))
			},
			assert: func(t *testing.T, err error, propagator propagation.TextMapPropagator, logged string) {
				t.Helper()

				require.NoError(t, err)
				assert.Contains(t, logged, "tracing initialized")
				assert.Contains(t, logged, "Tearing down OpenTelemetry provider")
				assert.Contains(t, logged, "test error")

				require.Len(t, propagator, 2)
				assert.Contains(t, propagator, propagation.TraceContext{})
				assert.Contains(t, propagator, propagation.Baggage{})
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			// GIVEN
			setupMocks := x.IfThenElse(tc.setupMocks != nil,
				tc.setupMocks,
				func(t *testing.T, _ *lifecycleMock) { t.Helper() })

			lc := &lifecycleMock{}
			tb := &testsupport.TestingLog{TB: t}
			logger := zerolog.New(zerolog.TestWriter{T: tb})

			setupMocks(t, lc)

			// WHEN
			err := setupTracing(lc, tc.conf, logger)
			otel.Handle(errors.New("test error")) // nolint: err113

			// THEN
			tc.assert(t, err, otel.GetTextMapPropagator(), tb.CollectedLog())
			lc.AssertExpectations(t)
		})
	}
}
