// Package branchview resolves branch topology from git listing output.
//
// It defines the branch field schema, deduplicates local/remote-tracking
// pairs via Resolve, and populates ahead/behind divergence counts through
// Resolver with per-branch failure isolation.
package branchview
