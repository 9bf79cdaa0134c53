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
	"reflect"
)

// merge overlays src onto dest. Maps are merged key by key, slices index by index,
// everything else is replaced by src. nil entries in src never override dest.
func merge(dest, src any) any {
	if isNil(dest) {
		return src
	}

	if isNil(src) {
		return dest
	}

	vDst := reflect.ValueOf(dest)
	vSrc := reflect.ValueOf(src)

	// nolint: exhaustive
	switch {
	case vDst.Kind() == reflect.Map && vSrc.Kind() == reflect.Map:
		return mergeMaps(toAnyMap(vDst), toAnyMap(vSrc))
	case vDst.Kind() == reflect.Slice && vSrc.Kind() == reflect.Slice:
		return mergeSlices(toAnySlice(vDst), toAnySlice(vSrc))
	default:
		return src
	}
}

func mergeSlices(dest, src []any) []any {
	if len(dest) < len(src) {
		oldDest := dest
		dest = make([]any, len(src))

		copy(dest, oldDest)
	}

	for i, v := range src {
		dest[i] = merge(dest[i], v)
	}

	return dest
}

func mergeMaps(dest, src map[string]any) map[string]any {
	for k, v := range src {
		dest[k] = merge(dest[k], v)
	}

	return dest
}

func toAnyMap(val reflect.Value) map[string]any {
	if m, ok := val.Interface().(map[string]any); ok {
		return m
	}

	result := make(map[string]any, val.Len())

	iter := val.MapRange()
	for iter.Next() {
		if key, ok := iter.Key().Interface().(string); ok {
			result[key] = iter.Value().Interface()
		}
	}

	return result
}

func toAnySlice(val reflect.Value) []any {
	if s, ok := val.Interface().([]any); ok {
		return s
	}

	result := make([]any, val.Len())
	for i := range val.Len() {
		result[i] = val.Index(i).Interface()
	}

	return result
}

func isNil(val any) bool {
	if val == nil {
		return true
	}

	rv := reflect.ValueOf(val)

	// nolint: exhaustive
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
