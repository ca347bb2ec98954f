// Package gitrepo contains helpers for interrogating Git repositories.
//
// It exposes Gateway, which builds and runs the git commands whose textual
// output feeds the record parsers: branch listings, the current branch,
// reachable commit counts, porcelain status, and commit metadata.
package gitrepo
