// Package events is a small typed observer used by the login engine.
//
// A Bus delivers payloads of one type to handlers subscribed to a named topic.
// Handlers run synchronously on the emitting goroutine in subscription order,
// so by the time Emit returns every handler has observed the payload. Each
// Subscribe returns a Subscription whose Unsubscribe is idempotent:
//
//	bus := events.New[login.Event]()
//	sub := bus.Subscribe("OK", func(ctx context.Context, e login.Event) { ... })
//	defer sub.Unsubscribe()
//
// Stream adapts a topic to a channel for callers that prefer to drain events;
// like the broadcaster it is modelled on, it drops payloads for a full buffer
// rather than blocking the emitter.
package events
