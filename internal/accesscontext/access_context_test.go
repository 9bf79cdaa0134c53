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

package accesscontext

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessContext(t *testing.T) {
	// without access context nothing is stored
	ctx := context.Background()

	SetError(ctx, errors.New("test error"))
	SetUpstream(ctx, "https://foo.bar")
	SetAttempts(ctx, 2)

	assert.NoError(t, Error(ctx))
	assert.Empty(t, Upstream(ctx))
	assert.Zero(t, Attempts(ctx))

	// with access context
	ctx = New(ctx)
	testErr := errors.New("test error")

	SetError(ctx, testErr)
	SetUpstream(ctx, "https://foo.bar")
	SetAttempts(ctx, 2)

	assert.Equal(t, testErr, Error(ctx))
	assert.Equal(t, "https://foo.bar", Upstream(ctx))
	assert.Equal(t, 2, Attempts(ctx))
}
