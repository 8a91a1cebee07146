/*
 * MIT License
 *
 * Copyright (c) 2022-2026 GoAkt Team
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package actor

import "errors"

var (
	// ErrAlreadyRegistered is returned by Register when the given name is
	// already taken.
	ErrAlreadyRegistered = errors.New("actor already registered under that name")

	// ErrEnterFailed is returned by Register when the actor's OnEnter hook
	// returned an error; the actor was never added to the registry.
	ErrEnterFailed = errors.New("actor failed to enter")

	// ErrRuntimeShuttingDown is returned by Register once Shutdown has been
	// called; no new actors may join a runtime that is tearing down.
	ErrRuntimeShuttingDown = errors.New("runtime is shutting down")

	// ErrInvalidBatchBound is returned by NewPoolRuntime when the configured
	// batch bound K is not positive.
	ErrInvalidBatchBound = errors.New("batch bound must be greater than zero")

	// ErrInvalidWorkerCount is returned by NewPoolRuntime when the worker
	// count W is not positive.
	ErrInvalidWorkerCount = errors.New("worker count must be greater than zero")
)

// outcomeToResult translates a mailbox's internal push outcome into the
// public Result taxonomy.
func outcomeToResult(o pushOutcome) Result {
	switch o {
	case pushOk:
		return Ok
	case pushOverhead:
		return Overhead
	case pushClosed:
		return Closed
	case pushOutOfMemory:
		return OutOfMemory
	default:
		return Closed
	}
}
