// Package errors provides standardized error handling for the COMAKO EDI
// core. It includes error classification, sentinel error variables, and
// helpers for consistent error wrapping across the pipeline stages.
//
// Classification drives recovery policy: invalid errors (malformed input,
// failed generation) are never retried, transient errors (bus or
// connection trouble) may be, and fatal errors stop the component.
package errors
