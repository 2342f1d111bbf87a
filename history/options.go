package history

// Option configures a Manager during creation.
type Option[T any] func(*Manager[T])

// WithMaxEntries sets the maximum number of past entries retained.
// When the bound is exceeded the oldest entries are dropped. Values
// of zero or less keep the default.
func WithMaxEntries[T any](max int) Option[T] {
	return func(m *Manager[T]) {
		if max > 0 {
			m.maxEntries = max
		}
	}
}

// WithEqual substitutes the equality function used for write
// deduplication and dirty detection. A nil function keeps the default.
func WithEqual[T any](eq EqualFunc[T]) Option[T] {
	return func(m *Manager[T]) {
		if eq != nil {
			m.equal = eq
		}
	}
}
