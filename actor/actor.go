package actor

// Actor is implemented by user-defined message handlers hosted in a Runtime.
//
// OnEnter runs once, before the actor becomes visible to senders. A non-nil
// error aborts registration: the actor is never added to the registry, no
// message is ever delivered to it, and OnExit is never called for it. This
// is the Go rendering of the source contract's two mutually-exclusive enter
// hooks (a may-fail enter and a cannot-fail enter) collapsed into a single
// method — returning nil is the cannot-fail case.
//
// OnMessage is invoked at most once at a time for a given actor, in the
// order envelopes from a single sender were sent, for as long as the actor
// is registered.
//
// OnExit runs exactly once, after release, and only after every envelope
// accepted before the mailbox closed has been delivered.
type Actor[Kind comparable, Payload any] interface {
	OnEnter() error
	OnMessage(ctx *Context[Kind, Payload])
	OnExit()
}
