// Package session maintains the reactive state of one active repository.
//
// Session sequences the reconciliation pass (fetch raw text, parse records,
// resolve branch relationships, compute divergence, publish) and exposes the
// resulting loaded flag, current branch name, and branch collection as
// atomically replaced snapshots with observer notifications.
package session
