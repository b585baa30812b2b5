// Package trace implements call-stack capture for an embedded
// dynamic-language runtime.
//
// This package contains:
//   - Frame and Location: one active invocation and its source position
//   - Recorder: the per-thread stack of active frames
//   - Snapshot: an immutable capture of the stack, innermost frame first
//   - Failure hooks: observers invoked with a snapshot when an error
//     is recorded
//   - Canonical CBOR and JSON encodings of snapshots
package trace
