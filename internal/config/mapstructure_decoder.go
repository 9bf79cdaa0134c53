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
	"crypto/tls"
	"reflect"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"

	"github.com/opengater/authgate/internal/gateway"
	"github.com/opengater/authgate/internal/x"
	"github.com/opengater/authgate/internal/x/errorchain"
)

// Decode zeroLog LogLevels from strings.
func logLevelDecodeHookFunc(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(zerolog.Level(0)) {
		return data, nil
	}

	level, err := zerolog.ParseLevel(data.(string)) // nolint: forcetypeassert
	if err != nil {
		return zerolog.InfoLevel, nil
	}

	return level, nil
}

func logFormatDecodeHookFunc(from reflect.Type, to reflect.Type, val any) (any, error) {
	if from.Kind() == reflect.String && to == reflect.TypeOf(LogFormat(0)) {
		return x.IfThenElse(val == "gelf", LogGelfFormat, LogTextFormat), nil
	}

	return val, nil
}

func byteSizeDecodeHookFunc(from reflect.Type, to reflect.Type, val any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(bytesize.ByteSize(0)) {
		return val, nil
	}

	size, err := bytesize.Parse(val.(string)) // nolint: forcetypeassert
	if err != nil {
		return nil, errorchain.NewWithMessagef(gateway.ErrConfiguration,
			"'%v' is not a valid byte size", val).CausedBy(err)
	}

	return size, nil
}

func sameSiteDecodeHookFunc(from reflect.Type, to reflect.Type, val any) (any, error) {
	if from.Kind() == reflect.String && to == reflect.TypeOf(SameSite(0)) {
		return parseSameSite(val.(string)), nil // nolint: forcetypeassert
	}

	return val, nil
}

func tlsMinVersionDecodeHookFunc(from reflect.Type, to reflect.Type, val any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(TLSMinVersion(0)) {
		return val, nil
	}

	switch val {
	case "TLS1.2":
		return TLSMinVersion(tls.VersionTLS12), nil
	case "TLS1.3":
		return TLSMinVersion(tls.VersionTLS13), nil
	default:
		return nil, errorchain.NewWithMessagef(gateway.ErrConfiguration,
			"'%v' is not a supported tls version", val)
	}
}
