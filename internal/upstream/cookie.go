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
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/opengater/authgate/internal/config"
)

const upperhex = "0123456789ABCDEF"

// EncodeCookieValue escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ), the
// same way browsers' encodeURIComponent does.
func EncodeCookieValue(raw string) string {
	var builder strings.Builder

	builder.Grow(len(raw) * 3) // nolint: mnd

	for i := range len(raw) {
		char := raw[i]
		if isUnreserved(char) {
			builder.WriteByte(char)

			continue
		}

		builder.WriteByte('%')
		builder.WriteByte(upperhex[char>>4])
		builder.WriteByte(upperhex[char&0x0f])
	}

	return builder.String()
}

// DecodeCookieValue reverses EncodeCookieValue. Malformed escapes, or escapes not
// resulting in valid UTF-8, leave the value as is.
func DecodeCookieValue(value string) string {
	decoded, err := url.PathUnescape(value)
	if err != nil || !utf8.ValidString(decoded) {
		return value
	}

	return decoded
}

func isUnreserved(char byte) bool {
	switch {
	case 'a' <= char && char <= 'z', 'A' <= char && char <= 'Z', '0' <= char && char <= '9':
		return true
	default:
		return strings.IndexByte("-_.!~*'()", char) != -1
	}
}

// StickyCookie creates the cookie remembering the given upstream.
func StickyCookie(conf config.StickyCookie, up *Upstream) *http.Cookie {
	return &http.Cookie{
		Name:     conf.Name,
		Value:    EncodeCookieValue(up.String()),
		Path:     conf.Path,
		MaxAge:   int(conf.MaxAge.Seconds()),
		Secure:   conf.Secure,
		HttpOnly: conf.HTTPOnly,
		SameSite: http.SameSite(conf.SameSite),
	}
}
