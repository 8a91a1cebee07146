package actor

// Context is handed to Actor.OnMessage for a single envelope. It carries the
// envelope itself plus a Send helper bound to the receiving actor, so a
// handler never needs to thread the Runtime or its own id through by hand.
type Context[Kind comparable, Payload any] struct {
	envelope Envelope[Kind, Payload]
	self     *handle[Kind, Payload]
}

// Source is the id of whoever sent this message.
func (c *Context[Kind, Payload]) Source() ID { return c.envelope.source }

// Kind names this message.
func (c *Context[Kind, Payload]) Kind() Kind { return c.envelope.kind }

// Payload is this message's body.
func (c *Context[Kind, Payload]) Payload() Payload { return c.envelope.payload }

// Self is the id of the actor currently handling this message.
func (c *Context[Kind, Payload]) Self() ID { return c.self.id }

// Send forwards a message from the actor currently handling this context,
// using the actor's own id as source. A target equal to Self bypasses the
// registry entirely and enqueues directly into the actor's own mailbox —
// see handle.sendSelf — which is both cheaper and the mechanism by which
// handlers self-schedule continuations without re-entering the registry's
// read lock.
func (c *Context[Kind, Payload]) Send(target ID, kind Kind, payload Payload) Result {
	return c.self.rt.sendFrom(c.self, target, kind, payload)
}
