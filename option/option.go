// Package option holds the functional option type shared by the
// configurable pingtcp components.
package option

// Option configures a value of type T in place.
type Option[T any] func(*T)
