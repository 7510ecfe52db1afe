// Package shm provides named shared-memory segments for zero-copy transfers
// to the engine process.
//
// Bulk payloads (vertices, edges, faces, per-object transforms) never travel
// over the command pipe. The caller asks the planner for a group of segment
// names and sizes, writes raw little-endian data into the mapped segments,
// and references the names in a JSON command. The engine maps the same
// segments by name, consumes them, and is the only side that ever removes a
// segment from the OS namespace.
//
// Ownership rules:
//   - Create/Open acquire a mapping owned exclusively by the caller.
//   - Close unmaps only; it never unlinks. Double-close is a no-op.
//   - Segment names are short (generated identifiers are 16 hex characters)
//     to stay under restrictive platform name-length limits.
//
// The mapping itself is platform-specific; see mmap_linux.go. Other
// platforms report shared memory as unsupported.
package shm
