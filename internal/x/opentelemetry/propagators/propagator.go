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

package propagators

import (
	"sync"

	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel/propagation"

	datadog "github.com/tonglil/opentelemetry-go-datadog-propagator"
)

const DatadogPropagatorName = "datadog"

var registerOnce sync.Once //nolint:gochecknoglobals

// New returns the propagator selected via OTEL_PROPAGATORS. Next to the
// propagators known to autoprop, "datadog" can be selected as well.
func New() propagation.TextMapPropagator {
	registerOnce.Do(func() {
		autoprop.RegisterTextMapPropagator(DatadogPropagatorName, datadog.Propagator{})
	})

	return autoprop.NewTextMapPropagator()
}
