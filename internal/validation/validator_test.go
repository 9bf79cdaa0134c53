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
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type evenTagValidator struct{}

func (evenTagValidator) Tag() string                           { return "even" }
func (evenTagValidator) AlwaysValidate() bool                  { return false }
func (evenTagValidator) Validate(fl validator.FieldLevel) bool { return fl.Field().Int()%2 == 0 }

func TestValidatorValidateStruct(t *testing.T) {
	type Nested struct {
		Name string `koanf:"name" validate:"required"`
	}

	type TestStruct struct {
		Port    int           `koanf:"port"    validate:"gt=0,lte=65535"`
		Timeout time.Duration `koanf:"timeout" validate:"gt=1s"`
		Count   int           `koanf:"count"   validate:"even"`
		Nested  Nested        `koanf:"nested"`
	}

	v, err := NewValidator(WithTagValidator(evenTagValidator{}))
	require.NoError(t, err)

	for uc, tc := range map[string]struct {
		value  TestStruct
		assert func(t *testing.T, err error)
	}{
		"valid": {
			value: TestStruct{Port: 80, Timeout: 2 * time.Second, Count: 2, Nested: Nested{Name: "foo"}},
			assert: func(t *testing.T, err error) {
				t.Helper()

				require.NoError(t, err)
			},
		},
		"port too big": {
			value: TestStruct{Port: 70000, Timeout: 2 * time.Second, Count: 2, Nested: Nested{Name: "foo"}},
			assert: func(t *testing.T, err error) {
				t.Helper()

				require.Error(t, err)
				assert.Equal(t, "'port' must be 65535 or less", err.Error())
			},
		},
		"timeout too small": {
			value: TestStruct{Port: 80, Timeout: time.Second, Count: 2, Nested: Nested{Name: "foo"}},
			assert: func(t *testing.T, err error) {
				t.Helper()

				require.Error(t, err)
				assert.Equal(t, "'timeout' must be greater than 1s", err.Error())
			},
		},
		"custom tag violated and nested field missing": {
			value: TestStruct{Port: 80, Timeout: 2 * time.Second, Count: 3},
			assert: func(t *testing.T, err error) {
				t.Helper()

				require.Error(t, err)
				assert.Contains(t, err.Error(), "'name' is a required field")
				assert.Contains(t, err.Error(), "'count'")
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			tc.assert(t, v.ValidateStruct(&tc.value))
		})
	}
}
