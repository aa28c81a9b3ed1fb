// Package types defines the geometry and approval entity types, the client
// configuration, and standard error types for the shoretrace review core.
package types
