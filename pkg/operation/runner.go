// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 OperationRunner executes operations, each under a registry id so it can
// be cancelled while it runs.
type OperationRunner struct {
	logger   *zerolog.Logger
	registry *Registry
	async    bool
}

// 🏗️ NewRunner creates a new runner. A nil registry gets a private one.
func NewRunner(logger *zerolog.Logger, registry *Registry, async bool) *OperationRunner {
	if registry == nil {
		registry = NewRegistry()
	}
	return &OperationRunner{
		logger:   logger,
		registry: registry,
		async:    async,
	}
}

// Registry returns the registry operations are tracked in
func (r *OperationRunner) Registry() *Registry {
	return r.registry
}

// 🏃 Run executes an operation under id
func (r *OperationRunner) Run(ctx context.Context, id string, op Operation) error {
	opCtx, release, err := r.registry.TryRegister(ctx, id)
	if err != nil {
		return err
	}

	if r.logger != nil {
		opCtx = r.logger.With().Str("operation", id).Logger().WithContext(opCtx)
	}
	zerolog.Ctx(opCtx).Debug().Bool("async", r.async).Msg("running operation")

	if r.async {
		return r.runAsync(opCtx, op, release)
	}
	defer release()
	return r.runSync(opCtx, op)
}

// 🔄 runSync runs an operation synchronously
func (r *OperationRunner) runSync(ctx context.Context, op Operation) error {
	if err := op.Execute(ctx); err != nil {
		return errors.Errorf("executing operation: %w", err)
	}
	return nil
}

// ⚡ runAsync runs an operation asynchronously. The registration is released
// when the operation returns, even if Run gave up waiting on it first.
func (r *OperationRunner) runAsync(ctx context.Context, op Operation, release func()) error {
	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer release()
		if err := op.Execute(ctx); err != nil {
			errCh <- errors.Errorf("executing operation: %w", err)
		}
	}()

	// Wait for completion or context cancellation
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return errors.Errorf("operation cancelled: %w", ctx.Err())
	case err := <-errCh:
		return err
	case <-done:
		select {
		case err := <-errCh:
			return err
		default:
			return nil
		}
	}
}
