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
	"net/http"
	"strings"
	"time"
)

type UpstreamsConfig struct {
	ActiveProfile string                `koanf:"active_profile" validate:"required"`
	Profiles      map[string]APIProfile `koanf:"profiles"       validate:"dive"`
	Sticky        StickyCookie          `koanf:"sticky"`
	// Cooldown is the time a failed upstream is tried after the healthy ones. 0 disables it.
	Cooldown    time.Duration `koanf:"cooldown,string" validate:"gte=0"`
	HealthCheck HealthCheck   `koanf:"health_check"`
}

// Active returns the active API profile. Its presence is ensured on configuration load.
func (c UpstreamsConfig) Active() APIProfile { return c.Profiles[c.ActiveProfile] }

type APIProfile struct {
	Upstreams        []string `koanf:"upstreams"          validate:"dive,upstream_url"`
	TelegramBot      string   `koanf:"telegram_bot"`
	TelegramOAuthURL string   `koanf:"telegram_oauth_url" validate:"omitempty,url"`
}

type StickyCookie struct {
	Name     string        `koanf:"name"            validate:"required"`
	Path     string        `koanf:"path"            validate:"startswith=/"`
	MaxAge   time.Duration `koanf:"max_age,string"  validate:"gte=0"`
	SameSite SameSite      `koanf:"same_site,string"`
	Secure   bool          `koanf:"secure"`
	HTTPOnly bool          `koanf:"http_only"`
}

type SameSite http.SameSite

func (s SameSite) String() string {
	// nolint: exhaustive
	switch http.SameSite(s) {
	case http.SameSiteStrictMode:
		return "strict"
	case http.SameSiteNoneMode:
		return "none"
	case http.SameSiteLaxMode:
		return "lax"
	default:
		return "default"
	}
}

func parseSameSite(val string) SameSite {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "strict":
		return SameSite(http.SameSiteStrictMode)
	case "none":
		return SameSite(http.SameSiteNoneMode)
	case "default":
		return SameSite(http.SameSiteDefaultMode)
	default:
		return SameSite(http.SameSiteLaxMode)
	}
}

type HealthCheck struct {
	Enabled    bool          `koanf:"enabled"`
	Path       string        `koanf:"path"            validate:"startswith=/"`
	Interval   time.Duration `koanf:"interval,string" validate:"gt=0"`
	Timeout    time.Duration `koanf:"timeout,string"  validate:"gt=0"`
	MaxRetries int           `koanf:"max_retries"     validate:"gte=0"`
}
