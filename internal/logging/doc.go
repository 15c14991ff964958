// Package logging provides a unified logging interface for the range-sum
// coordinator. It abstracts the underlying logging implementation, allowing
// consistent logging across components while supporting multiple backends.
// Log output always goes to stderr; stdout is reserved for the report.
package logging
