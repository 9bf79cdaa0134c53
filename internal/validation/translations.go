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

package validation

import (
	"reflect"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// registerTranslations replaces the translations of numeric comparison tags. The default
// ones render durations as plain nanosecond numbers.
func registerTranslations(validate *validator.Validate, trans ut.Translator) error {
	translations := []struct {
		tag      string
		template string
	}{
		{tag: "gt", template: "{0} must be greater than {1}"},
		{tag: "gte", template: "{0} must be {1} or greater"},
		{tag: "lt", template: "{0} must be less than {1}"},
		{tag: "lte", template: "{0} must be {1} or less"},
	}

	for _, entry := range translations {
		durationKey := entry.tag + "-duration"
		template := entry.template

		if err := validate.RegisterTranslation(entry.tag, trans,
			func(ut ut.Translator) error { return ut.Add(durationKey, template, false) },
			comparisonTranslation(entry.tag, durationKey),
		); err != nil {
			return err
		}
	}

	return nil
}

func comparisonTranslation(tag, durationKey string) validator.TranslationFunc {
	durationType := reflect.TypeOf(time.Duration(0))

	return func(ut ut.Translator, fe validator.FieldError) string {
		var (
			translation string
			err         error
		)

		kind := fe.Kind()
		if kind == reflect.Ptr {
			kind = fe.Type().Elem().Kind()
		}

		// nolint: exhaustive
		switch kind {
		case reflect.Int64:
			if fe.Type() == durationType {
				param := fe.Param()
				if dur, perr := time.ParseDuration(param); perr == nil {
					param = dur.String()
				}

				translation, err = ut.T(durationKey, fe.Field(), param)

				break
			}

			fallthrough
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			translation, err = ut.T(tag+"-number", fe.Field(), fe.Param())
		default:
			return fe.Error()
		}

		if err != nil {
			return fe.Error()
		}

		return translation
	}
}
