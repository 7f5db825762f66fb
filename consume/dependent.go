// dependent.go
//
// Dependent[T]: a plain value riding a dependency chain.

package consume

// Dependent pairs a value with the token of the chain that produced it.
// It is an immutable carrier: chain-extending operations return a new
// Dependent rather than mutating one in place.
//
// The zero value carries no payload and no dependency and is not
// meaningful; construct through MakeDependent or SelfDependent.
type Dependent[T any] struct {
	Value T
	Dep   Dependency
}

// MakeDependent attaches an existing chain to a value.
func MakeDependent[T any](v T, d Dependency) Dependent[T] {
	return Dependent[T]{Value: v, Dep: d}
}

// SelfDependent roots a new chain in the value itself. This is the form
// used for the very first consume load, where no prior token exists and
// the loaded value is its own evidence of the load.
func SelfDependent[T any](v T) Dependent[T] {
	return Dependent[T]{Value: v, Dep: DependencyOn(v)}
}
