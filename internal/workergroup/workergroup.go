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

// Package workergroup is a named bag of goroutines with barrier-style
// init-done synchronisation and joint shutdown, the Go rendering of the
// source's ThreadGroup. It is used both for a shared pool's fixed worker
// goroutines, started together at construction, and for each dedicated
// per-actor thread, which Register starts in a Group of its own. WaitInit is
// monotonic: waiting on it after a single new Attach only ever blocks on
// that newest worker, not on ones that already reported in.
package workergroup

import "sync"

// Done is called by a worker's routine exactly once, to report that its
// initialisation phase has finished. A nil error means success.
type Done func(err error)

// Group tracks how many workers have been attached and how many have
// finished initialising.
type Group struct {
	mu        sync.Mutex
	cond      *sync.Cond
	expected  int
	completed int
	failed    bool
	wg        sync.WaitGroup
}

// New creates an empty Group.
func New() *Group {
	g := &Group{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Attach starts routine in its own goroutine and counts it against the
// group's expected-initialisations tally. routine must call done exactly
// once. A routine that panics before calling done is treated as an init
// error, mirroring the source's "throws before calling done" contract.
func (g *Group) Attach(routine func(done Done)) {
	g.mu.Lock()
	g.expected++
	g.mu.Unlock()

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		reported := false
		defer func() {
			if r := recover(); r != nil && !reported {
				g.reportFailure()
			}
		}()
		routine(func(err error) {
			reported = true
			g.mu.Lock()
			g.completed++
			if err != nil {
				g.failed = true
			}
			g.cond.Broadcast()
			g.mu.Unlock()
		})
	}()
}

func (g *Group) reportFailure() {
	g.mu.Lock()
	g.completed++
	g.failed = true
	g.cond.Broadcast()
	g.mu.Unlock()
}

// WaitInit blocks until every worker attached so far has called done, or
// any worker has reported (or panicked into) an init error. It returns
// false in the latter case.
func (g *Group) WaitInit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.completed < g.expected && !g.failed {
		g.cond.Wait()
	}
	return !g.failed
}

// Join waits for every attached worker's goroutine to return. Idempotent.
func (g *Group) Join() {
	g.wg.Wait()
}
