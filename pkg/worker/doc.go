// Package worker provides a generic bounded worker pool.
//
// Interchanges are independent of each other, so the pipeline fans out
// over a pool sized to the CPU core count. Submission is non-blocking:
// when the queue is full the work item is rejected rather than queued
// unboundedly, and the caller decides whether to drop or retry.
package worker
