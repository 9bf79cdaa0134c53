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

package upstream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/ybbus/httpretry"

	"github.com/opengater/authgate/internal/config"
	"github.com/opengater/authgate/internal/gateway"
	"github.com/opengater/authgate/internal/x/errorchain"
)

const (
	checkMinBackoff = 100 * time.Millisecond
	checkMaxBackoff = 2 * time.Second
	checkMaxJitter  = 50 * time.Millisecond
)

// HealthChecker periodically checks every upstream of a set and reports the result to the
// tracker. Any response below 500 counts as a sign of life.
type HealthChecker struct {
	set     *Set
	tracker *Tracker
	client  *http.Client
	path    string
	timeout time.Duration
	s       gocron.Scheduler
	l       zerolog.Logger

	ctx    context.Context // nolint: containedctx
	cancel context.CancelFunc
}

func NewHealthChecker(
	conf config.HealthCheck,
	set *Set,
	tracker *Tracker,
	client *http.Client,
	logger zerolog.Logger,
) (*HealthChecker, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, errorchain.NewWithMessage(gateway.ErrInternal,
			"failed creating upstream health check scheduler").CausedBy(err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// httpretry replaces the transport of the client it gets
	checkClient := *client
	if checkClient.Transport == nil {
		checkClient.Transport = http.DefaultTransport
	}

	checker := &HealthChecker{
		set:     set,
		tracker: tracker,
		client: httpretry.NewCustomClient(
			&checkClient,
			httpretry.WithMaxRetryCount(conf.MaxRetries),
			httpretry.WithBackoffPolicy(
				httpretry.ExponentialBackoff(checkMinBackoff, checkMaxBackoff, checkMaxJitter)),
		),
		path:    conf.Path,
		timeout: conf.Timeout,
		s:       scheduler,
		l:       logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	if _, err = scheduler.NewJob(
		gocron.DurationJob(conf.Interval),
		gocron.NewTask(func() { checker.CheckAll(checker.ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	); err != nil {
		cancel()

		return nil, errorchain.NewWithMessage(gateway.ErrInternal,
			"failed scheduling upstream health checks").CausedBy(err)
	}

	return checker, nil
}

func (p *HealthChecker) Start(_ context.Context) error {
	p.l.Info().Int("_upstreams", p.set.Len()).Msg("Starting upstream health checks")

	p.s.Start()

	return nil
}

func (p *HealthChecker) Stop(_ context.Context) error {
	p.l.Info().Msg("Stopping upstream health checks")

	p.cancel()

	return p.s.Shutdown()
}

// CheckAll checks all upstreams concurrently and waits for the results.
func (p *HealthChecker) CheckAll(ctx context.Context) {
	var wg sync.WaitGroup

	for _, up := range p.set.Upstreams() {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := p.check(ctx, up); err != nil {
				p.l.Warn().Err(err).Str("_upstream", up.String()).Msg("Upstream health check failed")
				p.tracker.MarkFailed(up)

				return
			}

			p.l.Debug().Str("_upstream", up.String()).Msg("Upstream is healthy")
			p.tracker.MarkHealthy(up)
		}()
	}

	wg.Wait()
}

func (p *HealthChecker) check(ctx context.Context, up *Upstream) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BuildURL(up, p.path, nil).String(), nil)
	if err != nil {
		return errorchain.NewWithMessage(gateway.ErrInternal, "failed creating health check request").
			CausedBy(err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errorchain.NewWithMessage(gateway.ErrCommunication, "health check request failed").
			CausedBy(err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return errorchain.NewWithMessagef(gateway.ErrCommunication,
			"upstream responded with %d", resp.StatusCode)
	}

	return nil
}
