// Package metric provides Prometheus metrics for the EDI pipeline.
//
// All metrics live in a private registry so tests and embedded use never
// collide with the default global registry. The registry pre-registers
// the core pipeline metrics plus Go runtime collectors; components add
// their own through the Register methods.
package metric
