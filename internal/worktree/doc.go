// Package worktree summarizes porcelain working tree status output.
package worktree
