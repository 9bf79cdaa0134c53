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

package listener

import (
	"crypto/tls"
	"net"

	"github.com/opengater/authgate/internal/config"
)

// New creates a listener on the given address. It is wrapped into a TLS listener if
// tlsConf is set.
func New(network, address string, tlsConf *config.TLS) (net.Listener, error) {
	var cfg *tls.Config

	if tlsConf != nil {
		var err error

		// key material is loaded before binding, so a broken config does not leak a socket
		if cfg, err = tlsConf.TLSConfig(); err != nil {
			return nil, err
		}
	}

	listener, err := net.Listen(network, address)
	if err != nil {
		return nil, err
	}

	if cfg != nil {
		return tls.NewListener(listener, cfg), nil
	}

	return listener, nil
}
