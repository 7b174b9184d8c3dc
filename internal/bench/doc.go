// Package bench holds the live state of the optical bench.
//
// A [Controller] owns the only mutable value in the system, the current
// [optics.Parameters]. Every setter validates its input, recomputes the ray
// diagram, the intensity profile and the probe reading from scratch, and
// returns them together as a [Snapshot]. Rejected input leaves the previous
// parameters in place.
//
// # Thread Safety
//
// Controller instances are NOT thread-safe. Callers that share one across
// goroutines (the websocket server) serialize access themselves.
package bench
