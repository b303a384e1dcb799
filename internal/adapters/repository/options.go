// Package repository defines the render record archive and errors.
package repository

// Option applies a configuration option to the SQLiteArchive.
type Option func(*SQLiteArchive)

// WithQueryLimit caps how many records a single query may return.
func WithQueryLimit(limit int) Option {
	return func(a *SQLiteArchive) {
		if limit > 0 {
			a.queryLimit = limit
		}
	}
}
