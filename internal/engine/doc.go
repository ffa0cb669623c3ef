// Package engine is the send loop: it turns a Plan (interval, round count)
// and a Sender into a bounded or unbounded sequence of publish attempts with
// per-round accounting.
//
// The loop is strictly sequential — one round at a time, the only suspension
// point being the inter-round wait, which selects on the context so process
// signals interrupt it cleanly. Round failures are counted, never fatal;
// the engine's one resilience rule is that a bad round does not stop the
// remaining scheduled rounds. Lifecycle: Idle → Running → Completed.
package engine
