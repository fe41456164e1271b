// Package harness runs YAML-defined scenarios against the todo application
// and captures a deterministic dispatch trace.
//
// A scenario is a list of messages to dispatch in order, each with optional
// expectations on the composed result or the error. Every run gets a fresh
// in-memory store, a sequential ID generator and a logical clock, so the same
// scenario always produces a byte-identical trace. Golden files under
// testdata/golden are the recorded source of truth; regenerate them with
//
//	go test ./internal/harness -update
package harness
