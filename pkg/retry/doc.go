// Package retry provides exponential backoff for transient failures.
//
// Retrying belongs to the transport layer, never to the EDI core: a
// parse failure is final, a NATS publish against a reconnecting server
// is not. Callers mark errors that must not be retried with
// NonRetryable; errors classified invalid or fatal by the errors
// package are treated the same way.
package retry
