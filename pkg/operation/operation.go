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
)

// 🎯 Operation is a unit of work run by an OperationRunner
type Operation interface {
	// Execute runs the operation. It should return promptly once ctx is
	// cancelled.
	Execute(ctx context.Context) error
}

// Func adapts a function to Operation
type Func func(ctx context.Context) error

// Execute calls f
func (f Func) Execute(ctx context.Context) error {
	return f(ctx)
}
