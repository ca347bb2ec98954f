// Package records decodes delimiter-encoded command output into typed records.
//
// It defines FieldSchema, the ordered contract shared by command construction
// and positional decoding, and ParseRecords for turning newline-separated,
// NUL-delimited text into records keyed by schema field names.
package records
