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

package config

import (
	"net/url"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// UpstreamURLValidator implements the upstream_url validation tag. Upstreams must be
// absolute http(s) URLs without query or fragment, as request paths and queries are
// appended to them.
type UpstreamURLValidator struct{}

func (UpstreamURLValidator) Tag() string { return "upstream_url" }

func (UpstreamURLValidator) AlwaysValidate() bool { return true }

func (UpstreamURLValidator) Validate(fl validator.FieldLevel) bool {
	raw := fl.Field().String()

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (parsed.Scheme == "http" || parsed.Scheme == "https") &&
		len(parsed.Host) != 0 &&
		len(parsed.RawQuery) == 0 &&
		len(parsed.Fragment) == 0
}

func (UpstreamURLValidator) MessageTemplate() string {
	return "{0} must be an absolute http(s) URL without query and fragment, got '{1}'"
}

func (v UpstreamURLValidator) Translate(ut ut.Translator, fe validator.FieldError) string {
	msg, err := ut.T(v.Tag(), fe.Field(), fe.Value().(string)) // nolint: forcetypeassert
	if err != nil {
		return fe.Error()
	}

	return msg
}
