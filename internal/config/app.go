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

// AppConfig holds the public settings the dashboard fetches at runtime.
type AppConfig struct {
	ServiceName        string `koanf:"service_name"         validate:"required"`
	AuthURL            string `koanf:"auth_url"             validate:"omitempty,url"`
	AuthProfileEnabled bool   `koanf:"auth_profile_enabled"`
	AuthPopupOrigin    string `koanf:"auth_popup_origin"    validate:"omitempty,url"`
}
