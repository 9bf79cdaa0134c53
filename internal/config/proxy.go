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
	"slices"
	"time"

	"github.com/inhies/go-bytesize"
)

type ProxyConfig struct {
	PathPrefix       string            `koanf:"path_prefix"       validate:"startswith=/"`
	AppConfigPath    string            `koanf:"app_config_path"   validate:"startswith=/"`
	MaxBodySize      bytesize.ByteSize `koanf:"max_body_size,string"`
	FailoverStatuses []int             `koanf:"failover_statuses" validate:"dive,gte=100,lte=599"`
	AuthStatuses     []int             `koanf:"auth_statuses"     validate:"dive,gte=100,lte=599"`
	UserAgent        string            `koanf:"user_agent"`
	Accept           string            `koanf:"accept"`
	Timeout          time.Duration     `koanf:"timeout,string"    validate:"gt=0"`
	ConnectionsLimit ConnectionsLimit  `koanf:"connections_limit"`
}

func (c ProxyConfig) IsFailoverStatus(code int) bool {
	return slices.Contains(c.FailoverStatuses, code)
}

func (c ProxyConfig) IsAuthStatus(code int) bool {
	return slices.Contains(c.AuthStatuses, code)
}

type ConnectionsLimit struct {
	MaxPerHost     int `koanf:"max_per_host"      validate:"gte=0"`
	MaxIdle        int `koanf:"max_idle"          validate:"gte=0"`
	MaxIdlePerHost int `koanf:"max_idle_per_host" validate:"gte=0"`
}
