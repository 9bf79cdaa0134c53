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

package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHopByHopHeader(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		hop  bool
	}{
		{name: "connection", hop: true},
		{name: "Keep-Alive", hop: true},
		{name: "TE", hop: true},
		{name: "transfer-encoding", hop: true},
		{name: "HOST", hop: true},
		{name: "content-length", hop: true},
		{name: "Content-Encoding", hop: true},
		{name: "Proxy-Authorization", hop: true},
		{name: "Authorization", hop: false},
		{name: "Content-Type", hop: false},
		{name: "Set-Cookie", hop: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.hop, IsHopByHopHeader(tc.name))
		})
	}
}

func TestCopyHeaders(t *testing.T) {
	t.Parallel()

	// GIVEN
	src := http.Header{}
	src.Set("Connection", "keep-alive")
	src.Set("Content-Length", "10")
	src.Set("Content-Type", "application/json")
	src.Set("X-Skipped", "foo")
	src.Add("Set-Cookie", "a=1")
	src.Add("Set-Cookie", "b=2")

	dst := http.Header{}

	// WHEN
	CopyHeaders(dst, src, func(name string) bool { return name == "X-Skipped" })

	// THEN
	assert.Len(t, dst, 2)
	assert.Equal(t, "application/json", dst.Get("Content-Type"))
	assert.Equal(t, []string{"a=1", "b=2"}, dst.Values("Set-Cookie"))
}
