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
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"
)

const (
	defaultReadTimeout  = time.Second * 5
	defaultWriteTimeout = time.Second * 30
	defaultIdleTimeout  = time.Second * 120

	defaultUpstreamTimeout = time.Second * 20

	defaultProxyPort         = 4455
	defaultManagementAPIPort = 4457
	defaultPrometheusPort    = 9000

	defaultBufferSize  = 4 * bytesize.KB
	defaultMaxBodySize = 10 * bytesize.MB

	defaultStickyCookieMaxAge = 24 * time.Hour

	defaultHealthCheckInterval   = time.Minute
	defaultHealthCheckTimeout    = time.Second * 5
	defaultHealthCheckMaxRetries = 2

	defaultActiveProfile = "cdn"

	DefaultStickyCookieName = "opengater_auth_upstream"
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	DefaultAccept = "application/json, text/plain, */*"
)

func defaultServiceConfig(port int) ServiceConfig {
	return ServiceConfig{
		Port: port,
		Timeout: Timeout{
			Read:  defaultReadTimeout,
			Write: defaultWriteTimeout,
			Idle:  defaultIdleTimeout,
		},
		BufferLimit: BufferLimit{
			Read:  defaultBufferSize,
			Write: defaultBufferSize,
		},
	}
}

func defaultConfig() Configuration {
	return Configuration{
		Serve: ServeConfig{
			Proxy: func() ServiceConfig {
				conf := defaultServiceConfig(defaultProxyPort)
				conf.CORS = &CORS{AllowCredentials: true}

				return conf
			}(),
			Management: defaultServiceConfig(defaultManagementAPIPort),
		},
		Log: LoggingConfig{
			Level:  zerolog.ErrorLevel,
			Format: LogTextFormat,
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Port:        defaultPrometheusPort,
			MetricsPath: "/metrics",
		},
		Tracing: TracingConfig{
			Enabled:           true,
			SpanProcessorType: SpanProcessorBatch,
		},
		App: AppConfig{
			ServiceName:        "Opengater",
			AuthURL:            "https://reauth.cloud",
			AuthProfileEnabled: true,
			AuthPopupOrigin:    "https://reauth.cloud",
		},
		Proxy: ProxyConfig{
			PathPrefix:    "/api/auth",
			AppConfigPath: "/api/config",
			MaxBodySize:   defaultMaxBodySize,
			UserAgent:     DefaultUserAgent,
			Accept:        DefaultAccept,
			Timeout:       defaultUpstreamTimeout,
		},
		Upstreams: UpstreamsConfig{
			ActiveProfile: defaultActiveProfile,
			Sticky: StickyCookie{
				Name:     DefaultStickyCookieName,
				Path:     "/",
				MaxAge:   defaultStickyCookieMaxAge,
				SameSite: SameSite(http.SameSiteLaxMode),
			},
			HealthCheck: HealthCheck{
				Path:       "/",
				Interval:   defaultHealthCheckInterval,
				Timeout:    defaultHealthCheckTimeout,
				MaxRetries: defaultHealthCheckMaxRetries,
			},
		},
	}
}

func defaultFailoverStatuses() []int {
	return []int{
		http.StatusNotFound,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	}
}

func defaultAuthStatuses() []int {
	return []int{http.StatusUnauthorized, http.StatusForbidden}
}

func defaultCORSAllowedMethods() []string {
	return []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}
}

func defaultCORSAllowedHeaders() []string {
	return []string{"Authorization", "Content-Type", "Accept"}
}

func builtinProfiles() map[string]APIProfile {
	return map[string]APIProfile{
		"eutochkin": {
			Upstreams: []string{
				"https://api.bot.eutochkin.com/api",
				"https://cdn.opngtr.ru/api",
				"https://opngtr.com/api",
			},
			TelegramBot: "kostik_chukcha_bot",
		},
		"cdn": {
			Upstreams: []string{
				"https://cdn.opngtr.ru/api",
				"https://opngtr.com/api",
			},
			TelegramBot: "opengater_vpn_bot",
			TelegramOAuthURL: "https://oauth.telegram.org/auth?bot_id=7185292961" +
				"&origin=https%3A%2F%2Freauth.cloud&request_access=write" +
				"&return_to=https%3A%2F%2Freauth.cloud%2F",
		},
	}
}
