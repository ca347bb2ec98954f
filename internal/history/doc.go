// Package history decodes commit metadata listings emitted by git log.
//
// It shares the record parser contract used for branch listings: the
// LogSchema both shapes the --format argument and drives decoding.
package history
