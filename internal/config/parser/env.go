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

package parser

import (
	"sort"
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/opengater/authgate/internal/gateway"
	"github.com/opengater/authgate/internal/x/errorchain"
	"github.com/opengater/authgate/internal/x/stringx"
)

const escapedUnderscore = `\:\`

// envKey converts e.g. PREFIX_UPSTREAMS_ACTIVE__PROFILE to upstreams.active_profile.
// A single underscore separates levels, a double one stands for a literal underscore.
func envKey(prefix, key string) string {
	tmp := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, prefix)), "__", escapedUnderscore)
	tmp = strings.ReplaceAll(tmp, "_", ".")

	return strings.ReplaceAll(tmp, escapedUnderscore, "_")
}

func toRealType(val string) any {
	var parsed map[string]any

	// the yaml parser guesses the type (int, bool, float, string) for us
	if err := yaml.Unmarshal(stringx.ToBytes("val: "+val), &parsed); err != nil {
		return val
	}

	return parsed["val"]
}

func koanfFromEnv(prefix string) (*koanf.Koanf, error) {
	parser := koanf.New(".")

	provider := env.Provider(".", env.Opt{
		Prefix: prefix,
		TransformFunc: func(key, val string) (string, any) {
			return envKey(prefix, key), toRealType(val)
		},
	})

	if err := parser.Load(provider, nil); err != nil {
		return nil, errorchain.NewWithMessage(gateway.ErrConfiguration,
			"failed to parse environment variables to config").CausedBy(err)
	}

	converted, _ := indexedMapsToSlices(parser.Raw()).(map[string]any)
	result := koanf.New(".")

	if err := result.Load(confmap.Provider(converted, ""), nil); err != nil {
		return nil, errorchain.NewWithMessage(gateway.ErrConfiguration,
			"failed to convert indexed environment variables").CausedBy(err)
	}

	return result, nil
}

// indexedMapsToSlices turns maps, having only numeric keys (like upstreams.0, upstreams.1),
// into slices. Missing indexes are left nil and do therefore not override existing entries
// on merge.
func indexedMapsToSlices(val any) any {
	mapVal, ok := val.(map[string]any)
	if !ok {
		return val
	}

	for k, v := range mapVal {
		mapVal[k] = indexedMapsToSlices(v)
	}

	if len(mapVal) == 0 {
		return mapVal
	}

	indexes := make([]int, 0, len(mapVal))

	for k := range mapVal {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			return mapVal
		}

		indexes = append(indexes, idx)
	}

	sort.Ints(indexes)

	slice := make([]any, indexes[len(indexes)-1]+1)
	for _, idx := range indexes {
		slice[idx] = mapVal[strconv.Itoa(idx)]
	}

	return slice
}
