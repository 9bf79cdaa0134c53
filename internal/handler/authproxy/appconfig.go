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

package authproxy

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/opengater/authgate/internal/config"
)

type appConfig struct {
	ServiceName         string `json:"service_name"`
	APIProfile          string `json:"api_profile"`
	AuthURL             string `json:"auth_url"`
	AuthProfileEnabled  bool   `json:"auth_profile_enabled"`
	AuthPopupOrigin     string `json:"auth_popup_origin"`
	TelegramBotUsername string `json:"telegram_bot_username"`
	TelegramOAuthURL    string `json:"telegram_oauth_url"`
}

// newAppConfigHandler serves the public runtime configuration of the dashboard. The
// document is rendered once, as it does not change while the process runs.
func newAppConfigHandler(app config.AppConfig, upstreams config.UpstreamsConfig) (http.Handler, error) {
	profile := upstreams.Active()

	body, err := json.Marshal(appConfig{
		ServiceName:         app.ServiceName,
		APIProfile:          upstreams.ActiveProfile,
		AuthURL:             app.AuthURL,
		AuthProfileEnabled:  app.AuthProfileEnabled,
		AuthPopupOrigin:     app.AuthPopupOrigin,
		TelegramBotUsername: profile.TelegramBot,
		TelegramOAuthURL:    profile.TelegramOAuthURL,
	})
	if err != nil {
		return nil, err
	}

	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodOptions {
			rw.WriteHeader(http.StatusNoContent)

			return
		}

		rw.Header().Set("Content-Type", "application/json")
		rw.Header().Set("Cache-Control", "no-store")
		rw.WriteHeader(http.StatusOK)

		if req.Method != http.MethodHead {
			_, _ = rw.Write(body)
		}
	}), nil
}
