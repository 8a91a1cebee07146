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

// Package actor hosts an in-process registry of named, single-threaded
// message handlers and routes envelopes between them. It does not cross a
// process boundary: there is no wire codec and no remoting, only goroutines,
// mailboxes and a name-addressed registry.
package actor

// ID addresses an actor within a Runtime. A concrete string keeps the
// registry's concurrent map and hashing cheap; nothing below ever needs more
// than equality over it.
type ID = string

// Envelope is the unit of delivery between actors: who sent it, what kind of
// message it is, and the payload, handed to the runtime by value at Send
// time and to the receiving actor's handler at delivery time. It is
// immutable once constructed.
type Envelope[Kind comparable, Payload any] struct {
	source  ID
	kind    Kind
	payload Payload
}

// Source is the id of the actor (or external caller) that sent the envelope.
func (e Envelope[Kind, Payload]) Source() ID { return e.source }

// Kind names the message; it need not be unique across envelopes.
func (e Envelope[Kind, Payload]) Kind() Kind { return e.kind }

// Payload is the caller-supplied body of the message.
func (e Envelope[Kind, Payload]) Payload() Payload { return e.payload }
