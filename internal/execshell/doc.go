// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps os/exec with zap logging and lifecycle observers so the
// rest of repostate can run git in a testable manner through the CommandRunner
// abstraction.
package execshell
