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
	"bytes"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx/fxevent"
)

func TestEventLoggerLogEvent(t *testing.T) {
	t.Parallel()

	errBind := errors.New("listen tcp :4456: bind: address already in use")

	for uc, tc := range map[string]struct {
		evt    fxevent.Event
		expMsg string
	}{
		"OnStartExecuting": {
			evt: &fxevent.OnStartExecuting{
				FunctionName: "authproxy.registerHooks",
				CallerName:   "fxlcm.LifecycleManager.Start",
			},
			expMsg: `{"level": "trace", "_functionName": "authproxy.registerHooks", "_caller": "fxlcm.LifecycleManager.Start", "message": "OnStart hook executing"}`,
		},
		"OnStartExecuted with error": {
			evt: &fxevent.OnStartExecuted{
				FunctionName: "authproxy.registerHooks",
				CallerName:   "fxlcm.LifecycleManager.Start",
				Err:          errBind,
				Runtime:      1 * time.Second,
			},
			expMsg: `{"level":"error", "_caller":"fxlcm.LifecycleManager.Start", "_functionName":"authproxy.registerHooks", "error":"listen tcp :4456: bind: address already in use", "message":"OnStart hook failed"}`,
		},
		"OnStartExecuted without error": {
			evt: &fxevent.OnStartExecuted{
				FunctionName: "authproxy.registerHooks",
				CallerName:   "fxlcm.LifecycleManager.Start",
				Runtime:      1 * time.Second,
			},
			expMsg: `{"_caller":"fxlcm.LifecycleManager.Start", "_functionName":"authproxy.registerHooks", "_runtime":"1s", "level":"trace", "message":"OnStart hook executed"}`,
		},
		"OnStopExecuting": {
			evt: &fxevent.OnStopExecuting{
				FunctionName: "authproxy.registerHooks",
				CallerName:   "fxlcm.LifecycleManager.Start",
			},
			expMsg: `{"_caller":"fxlcm.LifecycleManager.Start", "_functionName":"authproxy.registerHooks", "level":"trace", "message":"OnStop hook executing"}`,
		},
		"OnStopExecuted with error": {
			evt: &fxevent.OnStopExecuted{
				FunctionName: "authproxy.registerHooks",
				CallerName:   "fxlcm.LifecycleManager.Start",
				Err:          errBind,
				Runtime:      1 * time.Second,
			},
			expMsg: `{"_caller":"fxlcm.LifecycleManager.Start", "_functionName":"authproxy.registerHooks", "error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"OnStop hook failed"}`,
		},
		"OnStopExecuted without error": {
			evt: &fxevent.OnStopExecuted{
				FunctionName: "authproxy.registerHooks",
				CallerName:   "fxlcm.LifecycleManager.Start",
				Runtime:      1 * time.Second,
			},
			expMsg: `{"_caller":"fxlcm.LifecycleManager.Start", "_functionName":"authproxy.registerHooks", "_runtime":"1s", "level":"trace", "message":"OnStop hook executed"}`,
		},
		"Supplied with error": {
			evt: &fxevent.Supplied{
				TypeName:    "*config.Configuration",
				StackTrace:  []string{"serve.createApp"},
				ModuleTrace: []string{"internal.Module"},
				ModuleName:  "authproxy",
				Err:         errBind,
			},
			expMsg: `{"_module":"authproxy", "_moduleTrace":["internal.Module"], "_stacktrace":["serve.createApp"], "_type":"*config.Configuration", "error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"Error encountered while supplying module"}`,
		},
		"Supplied without error": {
			evt: &fxevent.Supplied{
				TypeName:    "*config.Configuration",
				ModuleTrace: []string{"internal.Module"},
				ModuleName:  "authproxy",
			},
			expMsg: `{"_module":"authproxy", "_moduleTrace":["internal.Module"], "_type":"*config.Configuration", "level":"trace", "message":"Module supplied"}`,
		},
		"Provided with error": {
			evt: &fxevent.Provided{
				OutputTypeNames: []string{"*config.Configuration"},
				ConstructorName: "upstream.newTracker",
				StackTrace:      []string{"serve.createApp"},
				ModuleTrace:     []string{"internal.Module"},
				ModuleName:      "authproxy",
				Err:             errBind,
				Private:         false,
			},
			expMsg: `{"_module":"authproxy", "_moduleTrace":["internal.Module"], "_stacktrace":["serve.createApp"], "error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"Error encountered while providing module"}`,
		},
		"Provided without error": {
			evt: &fxevent.Provided{
				OutputTypeNames: []string{"*config.Configuration"},
				ConstructorName: "upstream.newTracker",
				ModuleTrace:     []string{"internal.Module"},
				ModuleName:      "authproxy",
				Private:         false,
			},
			expMsg: `{"_constructor":"upstream.newTracker", "_module":"authproxy", "_moduleTrace":["internal.Module"], "_private":false, "_stacktrace":[], "_type":"*config.Configuration", "level":"trace", "message":"Module provided"}`,
		},
		"Replaced with error": {
			evt: &fxevent.Replaced{
				OutputTypeNames: []string{"*config.Configuration"},
				StackTrace:      []string{"serve.createApp"},
				ModuleTrace:     []string{"internal.Module"},
				ModuleName:      "authproxy",
				Err:             errBind,
			},
			expMsg: `{"_module":"authproxy", "_moduleTrace":["internal.Module"], "_stacktrace":["serve.createApp"], "error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"Error encountered while replacing module"}`,
		},
		"Replaced without error": {
			evt: &fxevent.Replaced{
				OutputTypeNames: []string{"*config.Configuration"},
				ModuleTrace:     []string{"internal.Module"},
				ModuleName:      "authproxy",
			},
			expMsg: `{"_module":"authproxy", "_moduleTrace":["internal.Module"], "_stacktrace":[], "_type":"*config.Configuration", "level":"trace", "message":"Module replaced"}`,
		},
		"Decorated with error": {
			evt: &fxevent.Decorated{
				DecoratorName:   "tracing.decorateLogger",
				OutputTypeNames: []string{"*config.Configuration"},
				StackTrace:      []string{"serve.createApp"},
				ModuleTrace:     []string{"internal.Module"},
				ModuleName:      "authproxy",
				Err:             errBind,
			},
			expMsg: `{"_module":"authproxy", "_moduleTrace":["internal.Module"], "_stacktrace":["serve.createApp"], "error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"Error encountered while decorating module"}`,
		},
		"Decorated without error": {
			evt: &fxevent.Decorated{
				DecoratorName:   "tracing.decorateLogger",
				OutputTypeNames: []string{"*config.Configuration"},
				ModuleTrace:     []string{"internal.Module"},
				ModuleName:      "authproxy",
			},
			expMsg: `{"_decorator":"tracing.decorateLogger", "_module":"authproxy", "_moduleTrace":["internal.Module"], "_stacktrace":[], "_type":"*config.Configuration", "level":"trace", "message":"Module decorated"}`,
		},
		"Run with error": {
			evt: &fxevent.Run{
				Name:       "registerHooks",
				Kind:       "invoke",
				ModuleName: "authproxy",
				Runtime:    1 * time.Second,
				Err:        errBind,
			},
			expMsg: `{"_kind":"invoke", "_module":"authproxy", "_name":"registerHooks", "error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"Error returned"}`,
		},
		"Run without error": {
			evt: &fxevent.Run{
				Name:       "registerHooks",
				Kind:       "invoke",
				ModuleName: "authproxy",
				Runtime:    1 * time.Second,
			},
			expMsg: `{"_kind":"invoke", "_module":"authproxy", "_name":"registerHooks", "_runtime":"1s", "level":"trace", "message":"Starting"}`,
		},
		"Invoking": {
			evt: &fxevent.Invoking{
				FunctionName: "authproxy.registerHooks",
				ModuleName:   "authproxy",
			},
			expMsg: `{"_function":"authproxy.registerHooks", "_module":"authproxy", "level":"trace", "message":"Invoking module"}`,
		},
		"Invoked with error": {
			evt: &fxevent.Invoked{
				FunctionName: "authproxy.registerHooks",
				ModuleName:   "authproxy",
				Err:          errBind,
				Trace:        "cmd/serve/app_factory.go:93",
			},
			expMsg: `{"_function":"authproxy.registerHooks", "_module":"authproxy", "_stack":"cmd/serve/app_factory.go:93", "error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"Invoke failed"}`,
		},
		"Invoked without error": {
			evt: &fxevent.Invoked{
				FunctionName: "authproxy.registerHooks",
				ModuleName:   "authproxy",
				Trace:        "cmd/serve/app_factory.go:93",
			},
			expMsg: `{"_function":"authproxy.registerHooks", "_module":"authproxy", "_stack":"cmd/serve/app_factory.go:93", "level":"trace", "message":"Invoked module"}`,
		},
		"Stopping": {
			evt: &fxevent.Stopping{
				Signal: syscall.SIGINT,
			},
			expMsg: `{"_signal":"INTERRUPT", "level":"trace", "message":"Received signal"}`,
		},
		"Stopped with error": {
			evt: &fxevent.Stopped{
				Err: errBind,
			},
			expMsg: `{"error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"Stop failed"}`,
		},
		"Stopped without error": {
			evt:    &fxevent.Stopped{},
			expMsg: `{"level":"trace", "message":"Stopped"}`,
		},
		"RollingBack": {
			evt: &fxevent.RollingBack{
				StartErr: errBind,
			},
			expMsg: `{"error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"Start failed, rolling back"}`,
		},
		"RolledBack with error": {
			evt: &fxevent.RolledBack{
				Err: errBind,
			},
			expMsg: `{"error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"Rollback failed"}`,
		},
		"RolledBack without error": {
			evt:    &fxevent.RolledBack{},
			expMsg: `{"level":"trace", "message":"Rollback succeeded"}`,
		},
		"Started with error": {
			evt: &fxevent.Started{
				Err: errBind,
			},
			expMsg: `{"error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"Start failed"}`,
		},
		"Started without error": {
			evt:    &fxevent.Started{},
			expMsg: `{"level":"trace", "message":"Started"}`,
		},
		"LoggerInitialized with error": {
			evt: &fxevent.LoggerInitialized{
				Err:             errBind,
				ConstructorName: "upstream.newTracker",
			},
			expMsg: `{"error":"listen tcp :4456: bind: address already in use", "level":"error", "message":"Custom logger initialization failed"}`,
		},
		"LoggerInitialized without error": {
			evt: &fxevent.LoggerInitialized{
				ConstructorName: "upstream.newTracker",
			},
			expMsg: `{"_constructor":"upstream.newTracker", "level":"trace", "message":"Initialized custom logger"}`,
		},
		"Provided by a named module": {
			evt: &fxevent.Provided{
				OutputTypeNames: []string{"upstream.Set"},
				ConstructorName: "newSet",
				ModuleName:      "upstream",
			},
			expMsg: `{"_constructor":"newSet", "_module":"upstream", "_moduleTrace":[], "_private":false, "_stacktrace":[], "_type":"upstream.Set", "level":"trace", "message":"Module provided"}`,
		},
	} {
		t.Run(uc, func(t *testing.T) {
			t.Parallel()

			buf := bytes.NewBufferString("")
			evtLogger := &eventLogger{l: zerolog.New(buf)}
			evtLogger.LogEvent(tc.evt)

			assert.JSONEq(t, tc.expMsg, buf.String())
		})
	}
}
