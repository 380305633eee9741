/*
 * Copyright 2026 SCI Lab.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package lifecycle manages service startup and shutdown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Service defines a long-running service that can be started and stopped.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Options configures Run.
type Options struct {
	ServiceName string
	Service     Service
	Logger      logger.Logger
}

// Run starts the service and blocks until it exits on its own, the context
// is canceled, or an interrupt/terminate signal arrives. The service is
// always given a bounded Stop before Run returns.
func Run(ctx context.Context, opts *Options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	log.Info().Str("service", opts.ServiceName).Msg("Starting service")

	errCh := make(chan error, 1)

	go func() {
		errCh <- opts.Service.Start(ctx)
	}()

	var runErr error

	select {
	case err := <-errCh:
		runErr = err
	case <-ctx.Done():
		log.Info().Str("service", opts.ServiceName).Msg("Shutdown signal received")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := opts.Service.Stop(stopCtx); err != nil {
		log.Error().Err(err).Str("service", opts.ServiceName).Msg("Error stopping service")

		if runErr == nil {
			runErr = err
		}
	}

	// If Start is still in flight after a signal, wait for it to unwind.
	if runErr == nil {
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				runErr = err
			}
		case <-stopCtx.Done():
			runErr = fmt.Errorf("service %s did not stop within %s", opts.ServiceName, shutdownTimeout)
		}
	}

	if runErr != nil && errors.Is(runErr, context.Canceled) {
		return nil
	}

	return runErr
}
