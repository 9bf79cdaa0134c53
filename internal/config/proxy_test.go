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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProxyConfigStatusClassification(t *testing.T) {
	conf := ProxyConfig{
		FailoverStatuses: defaultFailoverStatuses(),
		AuthStatuses:     defaultAuthStatuses(),
	}

	for uc, tc := range map[string]struct {
		code     int
		failover bool
		auth     bool
	}{
		"ok":                    {code: http.StatusOK},
		"not found":             {code: http.StatusNotFound, failover: true},
		"bad gateway":           {code: http.StatusBadGateway, failover: true},
		"unauthorized":          {code: http.StatusUnauthorized, auth: true},
		"forbidden":             {code: http.StatusForbidden, auth: true},
		"unprocessable content": {code: http.StatusUnprocessableEntity},
	} {
		t.Run(uc, func(t *testing.T) {
			assert.Equal(t, tc.failover, conf.IsFailoverStatus(tc.code))
			assert.Equal(t, tc.auth, conf.IsAuthStatus(tc.code))
		})
	}
}
