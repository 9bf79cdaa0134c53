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

	"github.com/opengater/authgate/internal/gateway"
	"github.com/opengater/authgate/internal/x/errorchain"
)

// Upstream is one of the equivalent backend API base URLs requests can be forwarded to.
type Upstream struct {
	raw string
	url *url.URL
}

// String returns the configured base URL without trailing slashes. This is the value
// stored in the sticky cookie and reported in the X-Auth-Upstream header.
func (u *Upstream) String() string { return u.raw }

func (u *Upstream) URL() *url.URL {
	cpy := *u.url

	return &cpy
}

// Origin returns scheme://host[:port] of the upstream.
func (u *Upstream) Origin() string { return u.url.Scheme + "://" + u.url.Host }

// Set is the ordered list of upstreams of the active API profile.
type Set struct {
	upstreams []*Upstream
	index     map[string]*Upstream
}

func NewSet(urls []string) (*Set, error) {
	set := &Set{index: make(map[string]*Upstream, len(urls))}

	for idx, raw := range urls {
		trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")

		parsed, err := url.Parse(trimmed)
		if err != nil {
			return nil, errorchain.NewWithMessagef(gateway.ErrConfiguration,
				"failed parsing upstream #%d", idx).CausedBy(err)
		}

		if !parsed.IsAbs() || len(parsed.Host) == 0 {
			return nil, errorchain.NewWithMessagef(gateway.ErrConfiguration,
				"upstream #%d (%s) is not an absolute url", idx, raw)
		}

		if _, present := set.index[trimmed]; present {
			continue
		}

		up := &Upstream{raw: trimmed, url: parsed}
		set.upstreams = append(set.upstreams, up)
		set.index[trimmed] = up
	}

	return set, nil
}

func (s *Set) Len() int { return len(s.upstreams) }

// Upstreams returns the upstreams in configured order.
func (s *Set) Upstreams() []*Upstream {
	result := make([]*Upstream, len(s.upstreams))
	copy(result, s.upstreams)

	return result
}

func (s *Set) Lookup(raw string) (*Upstream, bool) {
	up, ok := s.index[raw]

	return up, ok
}

// Preferred returns the upstreams in the order they should be tried. The upstream named
// by the sticky cookie comes first, followed by all others in configured order. Unknown
// or missing cookie values result in the configured order.
func (s *Set) Preferred(cookieValue string) []*Upstream {
	if len(s.upstreams) == 0 {
		return nil
	}

	if len(cookieValue) == 0 {
		return s.Upstreams()
	}

	preferred, ok := s.index[DecodeCookieValue(cookieValue)]
	if !ok {
		return s.Upstreams()
	}

	result := make([]*Upstream, 0, len(s.upstreams))
	result = append(result, preferred)

	for _, up := range s.upstreams {
		if up != preferred {
			result = append(result, up)
		}
	}

	return result
}
