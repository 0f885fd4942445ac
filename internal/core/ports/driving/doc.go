// Package driving provides interfaces for application entry points
// (primary/inbound ports). The HTTP API and CLI depend on these interfaces;
// services under internal/core/services implement them.
package driving
