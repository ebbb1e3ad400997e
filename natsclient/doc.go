// Package natsclient manages the NATS connection used to publish
// pipeline results and receive raw interchanges.
//
// The client wraps a single core NATS connection with reconnect
// handling, connection status tracking and an injectable logger. It
// deliberately stays below JetStream: the pipeline's at-most-once
// publish semantics need no stream persistence.
package natsclient
