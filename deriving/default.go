package deriving

import "sync"

// Defaulter is implemented by types with a generated or hand-written Default
// method on the value receiver.
type Defaulter[T any] interface {
	Default() T
}

// registry maps a typed nil pointer key, any((*T)(nil)), to a func() T.
var registry sync.Map

// Register installs the default constructor of T, used by Default for types
// that cannot carry methods, such as interfaces. A later registration
// replaces an earlier one.
func Register[T any](fn func() T) {
	registry.Store(key[T](), fn)
}

// Default returns the default value of T.
func Default[T any]() T {
	var zero T

	if d, ok := any(zero).(Defaulter[T]); ok {
		return d.Default()
	}

	if fn, ok := registry.Load(key[T]()); ok {
		return fn.(func() T)()
	}

	return zero
}

func key[T any]() any {
	return (*T)(nil)
}
