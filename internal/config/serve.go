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
	"net"
	"strconv"
	"time"

	"github.com/inhies/go-bytesize"
)

type ServeConfig struct {
	Proxy      ServiceConfig `koanf:"proxy"`
	Management ServiceConfig `koanf:"management"`
}

type ServiceConfig struct {
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"                      validate:"gt=0,lte=65535"`
	Timeout        Timeout       `koanf:"timeout"`
	BufferLimit    BufferLimit   `koanf:"buffer_limit"`
	CORS           *CORS         `koanf:"cors,omitempty"`
	TLS            *TLS          `koanf:"tls,omitempty"`
	TrustedProxies *[]string     `koanf:"trusted_proxies,omitempty" validate:"omitempty,dive,ip|cidr"`
	Respond        RespondConfig `koanf:"respond"`
}

// InsecureNetworks lists the notations of networks covering every address.
var InsecureNetworks = []string{ // nolint: gochecknoglobals
	"0.0.0.0/0",
	"::/0",
}

func (c ServiceConfig) Address() string { return net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) }

type Timeout struct {
	Read  time.Duration `koanf:"read,string"  validate:"gte=0"`
	Write time.Duration `koanf:"write,string" validate:"gte=0"`
	Idle  time.Duration `koanf:"idle,string"  validate:"gte=0"`
}

type BufferLimit struct {
	Read  bytesize.ByteSize `koanf:"read,string"`
	Write bytesize.ByteSize `koanf:"write,string"`
}

type CORS struct {
	AllowedOrigins   []string      `koanf:"allowed_origins"`
	AllowedMethods   []string      `koanf:"allowed_methods"`
	AllowedHeaders   []string      `koanf:"allowed_headers"`
	ExposedHeaders   []string      `koanf:"exposed_headers"`
	AllowCredentials bool          `koanf:"allow_credentials"`
	MaxAge           time.Duration `koanf:"max_age,string"`
}

// Enabled reports whether a CORS policy is in place. Without allowed origins no CORS
// headers are ever emitted.
func (c *CORS) Enabled() bool { return c != nil && len(c.AllowedOrigins) != 0 }

type ResponseOverride struct {
	Code int `koanf:"code" validate:"omitempty,gte=100,lte=599"`
}

type RespondConfig struct {
	Verbose bool `koanf:"verbose"`
	With    struct {
		ArgumentError         ResponseOverride `koanf:"argument_error"`
		CommunicationError    ResponseOverride `koanf:"communication_error"`
		InternalError         ResponseOverride `koanf:"internal_error"`
		MethodNotAllowedError ResponseOverride `koanf:"method_not_allowed_error"`
		PayloadTooLargeError  ResponseOverride `koanf:"payload_too_large_error"`
	} `koanf:"with"`
}
