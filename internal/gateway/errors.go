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

package gateway

import (
	"errors"
)

var (
	ErrArgument             = errors.New("argument error")
	ErrCommunication        = errors.New("communication error")
	ErrCommunicationTimeout = errors.New("communication timeout error")
	ErrConfiguration        = errors.New("configuration error")
	ErrInternal             = errors.New("internal error")
	ErrMethodNotAllowed     = errors.New("method not allowed")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrNoUpstream           = errors.New("no upstream available")
)

// MethodNotAllowedError carries the methods the route supports, so that the
// Allow header can be rendered.
type MethodNotAllowedError struct {
	Method  string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string { return "method " + e.Method + " not allowed" }

func (e *MethodNotAllowedError) Is(target error) bool { return target == ErrMethodNotAllowed }
