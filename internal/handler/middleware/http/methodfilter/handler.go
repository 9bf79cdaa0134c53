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

package methodfilter

import (
	"net/http"
	"slices"

	"github.com/opengater/authgate/internal/gateway"
	"github.com/opengater/authgate/internal/handler/middleware/http/errorhandler"
	"github.com/opengater/authgate/internal/x/errorchain"
)

// New rejects requests using a method not listed. The rejection is rendered by the
// given error handler, which also emits the Allow header.
func New(eh errorhandler.ErrorHandler, methods ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			if !slices.Contains(methods, req.Method) {
				eh.HandleError(rw, req, errorchain.New(gateway.ErrArgument).
					CausedBy(&gateway.MethodNotAllowedError{Method: req.Method, Allowed: methods}))

				return
			}

			next.ServeHTTP(rw, req)
		})
	}
}
