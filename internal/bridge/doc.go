// Package bridge runs the invocation pipeline that connects a managed caller
// to the native primitives.
//
// Every call moves through the same states:
//
//	Decode -> Validate -> Dispatch -> Adapt -> Done
//	   \          \           \
//	    +----------+-----------+--> Error
//
// Decode copies managed values into private buffers with the configured
// codec. Validate checks every role before anything else runs. Dispatch
// calls exactly one primitive with an output of the predicted size. Adapt
// encodes the output or maps the native status to a structured error.
// Secret buffers are wiped on every exit path, and nothing is retried.
//
// # Scheduling
//
// Call and Invoke run on the caller's goroutine. Go hands the same pipeline
// to a bounded worker pool and delivers the single Result on a channel.
//
// # Registration
//
// Module exports one EntryPoint per catalog operation to a Registrar, which
// is how a host runtime makes the operations callable by name.
package bridge
