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
	"os"
	"path/filepath"

	"github.com/opengater/authgate/internal/config/parser"
	"github.com/opengater/authgate/internal/gateway"
	"github.com/opengater/authgate/internal/validation"
	"github.com/opengater/authgate/internal/x/errorchain"
)

type (
	EnvVarPrefix      string
	ConfigurationPath string
)

type Configuration struct {
	Serve     ServeConfig     `koanf:"serve"`
	Log       LoggingConfig   `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Tracing   TracingConfig   `koanf:"tracing"`
	App       AppConfig       `koanf:"app"`
	Proxy     ProxyConfig     `koanf:"proxy"`
	Upstreams UpstreamsConfig `koanf:"upstreams"`
}

func NewConfiguration(
	envPrefix EnvVarPrefix,
	configFile ConfigurationPath,
	validator validation.Validator,
) (*Configuration, error) {
	// copy defaults
	result := defaultConfig()

	opts := []parser.Option{
		parser.WithDecodeHookFunc(logLevelDecodeHookFunc),
		parser.WithDecodeHookFunc(logFormatDecodeHookFunc),
		parser.WithDecodeHookFunc(byteSizeDecodeHookFunc),
		parser.WithDecodeHookFunc(sameSiteDecodeHookFunc),
		parser.WithDecodeHookFunc(tlsMinVersionDecodeHookFunc),
		parser.WithConfigFile(string(configFile)),
		parser.WithEnvPrefix(string(envPrefix)),
		parser.WithDefaultConfigFilename("config.yaml"),
	}

	for _, dir := range configLookupDirs() {
		opts = append(opts, parser.WithConfigLookupDir(dir))
	}

	if err := parser.New(opts...).Load(&result); err != nil {
		return nil, errorchain.NewWithMessage(gateway.ErrConfiguration, "failed loading config").
			CausedBy(err)
	}

	result.applyListDefaults()

	if err := validator.ValidateStruct(&result); err != nil {
		return nil, errorchain.NewWithMessage(gateway.ErrConfiguration, "failed validating config").
			CausedBy(err)
	}

	if _, ok := result.Upstreams.Profiles[result.Upstreams.ActiveProfile]; !ok {
		return nil, errorchain.NewWithMessagef(gateway.ErrConfiguration,
			"active api profile '%s' is not configured", result.Upstreams.ActiveProfile)
	}

	return &result, nil
}

func configLookupDirs() []string {
	dirs := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "authgate"))
	}

	return append(dirs, filepath.Join(string(filepath.Separator), "etc", "authgate"))
}

// applyListDefaults fills list and map typed settings after loading. Defaults for these
// cannot be part of the struct the config is loaded into, as sources are merged element
// by element, which would leave default entries behind an override.
func (c *Configuration) applyListDefaults() {
	if len(c.Proxy.FailoverStatuses) == 0 {
		c.Proxy.FailoverStatuses = defaultFailoverStatuses()
	}

	if len(c.Proxy.AuthStatuses) == 0 {
		c.Proxy.AuthStatuses = defaultAuthStatuses()
	}

	if cors := c.Serve.Proxy.CORS; cors != nil {
		if len(cors.AllowedMethods) == 0 {
			cors.AllowedMethods = defaultCORSAllowedMethods()
		}

		if len(cors.AllowedHeaders) == 0 {
			cors.AllowedHeaders = defaultCORSAllowedHeaders()
		}
	}

	if c.Upstreams.Profiles == nil {
		c.Upstreams.Profiles = make(map[string]APIProfile)
	}

	for name, profile := range builtinProfiles() {
		if _, ok := c.Upstreams.Profiles[name]; !ok {
			c.Upstreams.Profiles[name] = profile
		}
	}
}
