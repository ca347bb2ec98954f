// Package settings resolves persisted repository settings by identifier.
//
// A Registry is loaded from a YAML file or decoded from application
// configuration and exposes read-only RepositorySetting lookups keyed by id.
package settings
