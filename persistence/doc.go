// Package persistence defines the backend contract for reading and
// writing RDF graphs against heterogeneous storage targets, plus the
// pieces every backend shares: the error taxonomy, the
// leading-comment codec for Turtle documents, and the file-set
// resolver used by the CLI.
//
// Concrete backends live here (String, File) and in the subpackages
// s3, natsobject, graphstore and sop. All of them satisfy Backend and
// are dispatched by interface value.
//
// Every operation is a synchronous, blocking call. Backends are
// stateless apart from the SOP client, whose cookie-bearing session
// makes it single-caller; callers needing parallel throughput must
// construct one backend instance per concurrent unit of work.
package persistence
