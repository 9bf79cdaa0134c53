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
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	attempts  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	exhausted *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	factory := promauto.With(registerer)

	return &metrics{
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prometheus.BuildFQName("authgate", "upstream", "attempts_total"),
				Help: "Count all requests sent to upstreams by upstream and outcome.",
			},
			[]string{"upstream", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prometheus.BuildFQName("authgate", "upstream", "attempt_duration_seconds"),
				Help:    "Duration of requests sent to upstreams by upstream.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"upstream"},
		),
		exhausted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prometheus.BuildFQName("authgate", "proxy", "exhausted_total"),
				Help: "Count all requests no upstream produced a final answer for, by reason.",
			},
			[]string{"reason"},
		),
	}
}
