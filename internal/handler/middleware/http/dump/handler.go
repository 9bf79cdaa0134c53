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

package dump

import (
	"bytes"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/rs/zerolog"

	"github.com/opengater/authgate/internal/x/stringx"
)

// New dumps requests and responses if trace logging is enabled. Bodies of streamed
// content are omitted.
func New() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			logger := zerolog.Ctx(req.Context())

			if logger.GetLevel() != zerolog.TraceLevel {
				next.ServeHTTP(rw, req)

				return
			}

			if dump, err := httputil.DumpRequest(req, req.ContentLength != 0 && !isStream(req.Header)); err == nil {
				logger.Trace().Msgf("Request: %s\n", stringx.ToString(dump))
			} else {
				logger.Trace().Err(err).Msg("Failed dumping request")
			}

			var (
				wroteHeader bool
				buffer      bytes.Buffer
			)

			writeHead := func(code int) {
				if wroteHeader {
					return
				}

				wroteHeader = true

				buffer.WriteString(req.Proto + " " + strconv.Itoa(code) + " " + http.StatusText(code) + "\r\n")
				_ = rw.Header().Write(&buffer)
				buffer.WriteString("\r\n")
			}

			next.ServeHTTP(httpsnoop.Wrap(rw, httpsnoop.Hooks{
				WriteHeader: func(writeHeader httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
					return func(code int) {
						writeHead(code)
						writeHeader(code)
					}
				},
				Write: func(write httpsnoop.WriteFunc) httpsnoop.WriteFunc {
					return func(data []byte) (int, error) {
						writeHead(http.StatusOK)

						if !isStream(rw.Header()) {
							buffer.Write(data)
						}

						return write(data)
					}
				},
			}), req)

			logger.Trace().Msgf("Response: %s\n", stringx.ToString(buffer.Bytes()))
		})
	}
}

func isStream(header http.Header) bool {
	contentType := header.Get("Content-Type")

	return strings.Contains(contentType, "stream") || strings.Contains(contentType, "application/x-ndjson")
}
