// Package connection owns the endpoint and connection layer.
//
// Ownership boundary:
// - Endpoint: one physical link, its translation tables, receive buffer,
//   and class-of-service tagged outbound queue
// - Connection: the dispatcher, log-file name configuration, and the
//   endpoint collection (normally one; several for relay topologies)
// - transport adapters: TCP dial/accept with cookie exchange, and the
//   read-only file endpoint for replaying stream logs
//
// A connection is a single cooperative task. Producers on other tasks
// (the ping monitor's timer) hand system messages over through the queue;
// nothing else is shared.
package connection
