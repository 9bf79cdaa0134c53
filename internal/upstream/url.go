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

package upstream

import (
	"net/url"
	"strings"
)

// StripPrefix removes the route prefix from the given escaped request path. The result
// is the part to be appended to an upstream base URL.
func StripPrefix(escapedPath, prefix string) string {
	prefix = strings.TrimRight(prefix, "/")

	rest, found := strings.CutPrefix(escapedPath, prefix)
	if !found || (len(rest) != 0 && rest[0] != '/') {
		return escapedPath
	}

	return rest
}

// BuildURL joins the upstream base URL and the given escaped path. Empty and dot
// segments are dropped, so the result never leaves the base path of the upstream. All
// query parameters are appended.
func BuildURL(base *Upstream, escapedPath string, query url.Values) *url.URL {
	target := base.URL()

	segments := make([]string, 0, strings.Count(escapedPath, "/")+1)

	for _, segment := range strings.Split(escapedPath, "/") {
		if len(segment) == 0 || segment == "." || segment == ".." {
			continue
		}

		segments = append(segments, segment)
	}

	rawPath := strings.TrimRight(target.EscapedPath(), "/") + "/" + strings.Join(segments, "/")

	if path, err := url.PathUnescape(rawPath); err == nil {
		target.Path = path
		target.RawPath = rawPath
	} else {
		target.Path = rawPath
		target.RawPath = ""
	}

	if len(query) != 0 {
		values := target.Query()

		for key, vals := range query {
			for _, val := range vals {
				values.Add(key, val)
			}
		}

		target.RawQuery = values.Encode()
	}

	target.Fragment = ""

	return target
}
