// Package pipeline runs the end-to-end EDI processing flow: tokenize a
// raw interchange, validate it, convert it to the canonical form and
// generate the APERAK acknowledgment.
//
// One Process call handles one interchange synchronously. Interchanges
// are independent of each other, so the Service fans incoming messages
// out over a worker pool and publishes each result to the bus under
// type-derived subjects such as "edi.utilmd.received" and
// "edi.aperak.generated".
package pipeline
