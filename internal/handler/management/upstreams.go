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

package management

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/opengater/authgate/internal/upstream"
)

type upstreamStatus struct {
	URL         string `json:"url"`
	CoolingDown bool   `json:"cooling_down"`
}

type upstreamsStatus struct {
	Profile   string           `json:"profile"`
	Upstreams []upstreamStatus `json:"upstreams"`
}

// upstreams renders the upstreams of the active profile in configured order together
// with their passive health state.
func upstreams(profile string, set *upstream.Set, tracker *upstream.Tracker) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		status := upstreamsStatus{
			Profile:   profile,
			Upstreams: make([]upstreamStatus, 0, set.Len()),
		}

		for _, up := range set.Upstreams() {
			status.Upstreams = append(status.Upstreams, upstreamStatus{
				URL:         up.String(),
				CoolingDown: tracker.CoolingDown(up),
			})
		}

		body, err := json.Marshal(status)
		if err != nil {
			zerolog.Ctx(req.Context()).Error().Err(err).Msg("Failed rendering upstreams status")
			rw.WriteHeader(http.StatusInternalServerError)

			return
		}

		rw.Header().Set("Content-Type", "application/json")
		rw.Header().Set("Cache-Control", "no-cache")
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write(body)
	})
}
