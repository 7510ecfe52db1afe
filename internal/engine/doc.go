// Package engine implements the wire contract with the pivot engine process.
//
// The engine is a separate long-lived executable speaking newline-delimited
// JSON over its standard pipes. Commands carry an integer id, an operation
// name, and operation-specific fields; bulk data never travels on the wire
// and is referenced by shared-memory segment name instead.
//
// Components:
//   - Channel: owns the subprocess and its pipes and implements the line
//     protocol (send, send-and-wait, wait-for-id).
//   - Command set: a closed set of typed command variants serialized through
//     one schema-checked encoder, replacing free-form maps.
//   - Discovery: engine binary resolution (explicit path, PIVOT_ENGINE_PATH,
//     PATH lookup, bundled per-platform directory).
//
// Protocol rules:
//   - A reply is terminal for SendCommand when it parses as a JSON object
//     containing an "ok" field; for WaitForResponse when its "id" field
//     matches the awaited value.
//   - Anything else on stdout, including the engine's diagnostic chatter,
//     is discarded as protocol noise rather than surfaced as an error.
//   - Replies are matched by scan-and-discard, not a pending-request table.
//     The channel is therefore only correct under a single-outstanding-
//     request discipline: a reply to a different id is dropped, not queued.
package engine
