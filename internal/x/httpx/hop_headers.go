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
	"strings"
)

// HopByHopHeaders lists the headers an intermediary must not relay. Besides the RFC 7230
// connection specific headers it contains Host and Content-Length, which are recomputed
// for every hop, and Content-Encoding, as bodies are relayed decoded.
var HopByHopHeaders = map[string]struct{}{ //nolint:gochecknoglobals
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailers":            {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
	"Host":                {},
	"Content-Length":      {},
	"Content-Encoding":    {},
}

func IsHopByHopHeader(name string) bool {
	_, ok := HopByHopHeaders[http.CanonicalHeaderKey(strings.TrimSpace(name))]

	return ok
}

// CopyHeaders copies all headers from src to dst, except the hop-by-hop ones and
// those the skip function, if given, rejects. Multi-valued headers keep all values.
func CopyHeaders(dst, src http.Header, skip func(name string) bool) {
	for name, values := range src {
		if IsHopByHopHeader(name) || (skip != nil && skip(name)) {
			continue
		}

		for _, value := range values {
			dst.Add(name, value)
		}
	}
}
