// Package config loads and validates the service configuration.
//
// Configuration comes from a YAML file with environment variable
// overrides applied on top, so containerized deployments can adjust
// endpoints without rewriting the file. Defaults are complete enough to
// run against a local NATS server with no file at all.
package config
