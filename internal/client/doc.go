// Package client provides the engine client facade, the single entry point
// for host applications.
//
// A Client composes binary discovery, the process channel, segment planning
// and shared-memory transfer into one surface. It is built explicitly and
// passed by reference to call sites; there is deliberately no process-wide
// singleton. A typical host constructs one Client for its lifetime and
// restarts the engine through it as needed.
//
// Beyond the raw channel pass-throughs, the Client offers the two canonical
// transfer flows:
//   - StandardizeScene: plan five segments, write vertices/edges/transforms,
//     send the standardize command, await the reply.
//   - UploadFaces: the two-phase face transfer sharing one uid across both
//     segments.
//
// The client closes its local mappings once the engine has replied; the
// engine alone unlinks segments from the OS namespace after consuming them.
package client
