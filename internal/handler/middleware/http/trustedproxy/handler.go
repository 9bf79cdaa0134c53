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

package trustedproxy

import (
	"errors"
	"net"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yl2chen/cidranger"

	"github.com/opengater/authgate/internal/config"
	"github.com/opengater/authgate/internal/x/httpx"
)

var errInvalidAddress = errors.New("invalid IP address")

// nolint: gochecknoglobals
var forwardingHeaders = []string{
	"Forwarded",
	"X-Forwarded-For",
	"X-Forwarded-Proto",
	"X-Forwarded-Host",
	"X-Forwarded-Port",
	"X-Forwarded-Uri",
	"X-Real-Ip",
}

func parseNetwork(entry string) (*net.IPNet, error) {
	if strings.Contains(entry, "/") {
		_, ipNet, err := net.ParseCIDR(entry)

		return ipNet, err
	}

	ip := net.ParseIP(entry)
	if ip == nil {
		return nil, errInvalidAddress
	}

	if ip4 := ip.To4(); ip4 != nil {
		return &net.IPNet{IP: ip4, Mask: net.CIDRMask(net.IPv4len*8, net.IPv4len*8)}, nil // nolint: mnd
	}

	return &net.IPNet{IP: ip, Mask: net.CIDRMask(net.IPv6len*8, net.IPv6len*8)}, nil // nolint: mnd
}

// New drops the forwarding headers from requests not sent by one of the given proxies,
// so that clients cannot make upstreams believe they talk to somebody else.
func New(logger zerolog.Logger, proxies ...string) func(http.Handler) http.Handler {
	ranger := cidranger.NewPCTrieRanger()

	for _, entry := range proxies {
		ipNet, err := parseNetwork(entry)
		if err == nil {
			err = ranger.Insert(cidranger.NewBasicRangerEntry(*ipNet))
		}

		if err != nil {
			logger.Warn().Err(err).
				Msgf("Trusted proxies entry %q could not be parsed and will be ignored", entry)

			continue
		}

		if slices.Contains(config.InsecureNetworks, ipNet.String()) {
			logger.Warn().Msgf("Configured trusted proxies contain insecure networks: %s", entry)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			ip := net.ParseIP(httpx.IPFromHostPort(req.RemoteAddr))

			trusted := false
			if ip != nil {
				trusted, _ = ranger.Contains(ip)
			}

			if !trusted {
				for _, name := range forwardingHeaders {
					req.Header.Del(name)
				}
			}

			next.ServeHTTP(rw, req)
		})
	}
}
