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

package serve

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opengater/authgate/internal/handler/authproxy"
)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Starts the auth proxy together with the management and metrics services",
		Example: "authgate serve -c config.yaml",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := createApp(cmd, authproxy.Module)
			if err != nil {
				cmd.PrintErrf("Failed to initialize authgate: %v\n", err)

				os.Exit(1)
			}

			app.Run()
		},
	}
}
