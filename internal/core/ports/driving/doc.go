// Package driving provides interfaces for primary/inbound ports: the
// operations the CLI and route layers call on the core.
package driving
