// Package appconfiguration is a client SDK for a centrally managed
// feature-flag and dynamic-property catalog. An application asks a
// Client, at runtime, whether a named feature is on for a given Entity
// and what value a named property should take for that entity.
//
// The client pulls the whole catalog on startup, keeps it in memory, and
// subscribes to a push channel that signals when a new version exists so
// it can re-pull. Evaluation is local and synchronous: the client never
// blocks a query on the network.
package appconfiguration
