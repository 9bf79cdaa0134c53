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
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/opengater/authgate/internal/accesscontext"
	"github.com/opengater/authgate/internal/upstream"
	"github.com/opengater/authgate/internal/x/httpx"
)

type bufferedResponse struct {
	status int
	header http.Header
	body   []byte
}

type proxyError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *handler) writeResponse(
	rw http.ResponseWriter,
	req *http.Request,
	up *upstream.Upstream,
	stickyValue string,
	resp *bufferedResponse,
) {
	header := rw.Header()
	corsEnabled := h.cors.Enabled()

	httpx.CopyHeaders(header, resp.header, func(name string) bool {
		return strings.EqualFold(name, "Vary") ||
			(corsEnabled && strings.HasPrefix(http.CanonicalHeaderKey(name), "Access-Control-"))
	})

	if vary := mergeVary(header.Values("Vary"), resp.header.Values("Vary")); len(vary) != 0 {
		header.Set("Vary", vary)
	}

	header.Set("X-Auth-Upstream", up.String())

	if stickyValue != upstream.EncodeCookieValue(up.String()) {
		http.SetCookie(rw, upstream.StickyCookie(h.sticky, up))
	}

	accesscontext.SetUpstream(req.Context(), up.String())

	rw.WriteHeader(resp.status)

	if req.Method != http.MethodHead && len(resp.body) != 0 {
		_, _ = rw.Write(resp.body)
	}
}

func writeProxyError(rw http.ResponseWriter, message string) {
	body, _ := json.Marshal(proxyError{Error: "Proxy request failed", Message: message})

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(http.StatusBadGateway)
	_, _ = rw.Write(body)
}

// mergeVary joins the given Vary header values, dropping duplicates case-insensitively.
func mergeVary(values ...[]string) string {
	var (
		merged []string
		seen   = make(map[string]struct{})
	)

	for _, list := range values {
		for _, value := range list {
			for _, token := range strings.Split(value, ",") {
				token = strings.TrimSpace(token)
				key := strings.ToLower(token)

				if _, ok := seen[key]; ok || len(token) == 0 {
					continue
				}

				seen[key] = struct{}{}
				merged = append(merged, token)
			}
		}
	}

	return strings.Join(merged, ", ")
}
