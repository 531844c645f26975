// Package session owns the model lifecycle for one console conversation. It
// is structured into small files by concern:
//
//   - session.go: core Manager type, lifecycle (Initialize/SetupSession/
//     Generate/Complete/Dispose), single in-flight admission.
//   - engine.go: Engine/EngineSession interfaces and parameter structs.
//   - history.go: append-only (role, text) chat history and prompt rendering.
//   - stream.go: pull-based fragment stream returned by Generate.
//   - errors.go: error types and predicates (IsModelLoad, IsNotReady, ...).
//
// Build tags and runtimes:
//
//   - In-process llama (standard):
//     Uses the go-llama.cpp engine. Enabled with `-tags=llama`.
//     Files: engine_llama.go, llama_cgo.go (linker rpath hints).
//     A no-CGO stub exists when the tag is not set: engine_stub.go.
//
// External packages should treat this package as the orchestration layer and
// use public methods only. Internal types are subject to change.
package session
