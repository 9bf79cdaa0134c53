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

package tracecontext

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TraceContext holds the identifiers of the span active in a context, as hex strings.
type TraceContext struct {
	TraceID  string
	SpanID   string
	ParentID string
}

// Extract returns nil if the context carries no valid span.
func Extract(ctx context.Context) *TraceContext {
	span := trace.SpanFromContext(ctx)
	spanCtx := span.SpanContext()

	if !spanCtx.IsValid() {
		return nil
	}

	tc := &TraceContext{
		TraceID: spanCtx.TraceID().String(),
		SpanID:  spanCtx.SpanID().String(),
	}

	if roSpan, ok := span.(sdktrace.ReadOnlySpan); ok && roSpan.Parent().IsValid() {
		tc.ParentID = roSpan.Parent().SpanID().String()
	}

	return tc
}
