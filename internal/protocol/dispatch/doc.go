// Package dispatch owns identity translation and message routing.
//
// Ownership boundary:
// - per-endpoint name/local-ID/remote-ID translation tables
// - the connection-wide type/sender registries
// - the routing registry of filtered handlers, including the built-in
//   description handler that keeps registries current mid-session
package dispatch
