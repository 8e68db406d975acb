package option

import "fmt"

// Option is either Some (holds a value) or Nothing.
// A property that is missing from an item is reported as Nothing.
type Option[T any] struct {
	val   T
	valid bool
}

func Some[T any](val T) Option[T] {
	return Option[T]{val: val, valid: true}
}

func Nothing[T any]() Option[T] {
	return Option[T]{}
}

// Of builds an Option from the "comma ok" idiom, e.g. option.Of(cache.Lookup(key)).
func Of[T any](val T, ok bool) Option[T] {
	if !ok {
		return Nothing[T]()
	}
	return Some(val)
}

func (o Option[T]) IsSome() bool {
	return o.valid
}

func (o Option[T]) IsNothing() bool {
	return !o.valid
}

// Unwrap panics if the Option is Nothing.
func (o Option[T]) Unwrap() T {
	if !o.valid {
		panic("called Unwrap on a Nothing Option")
	}
	return o.val
}

// UnwrapOrZero returns the contained value or the zero value of T.
// For Option[any] the zero value is nil, which is how absent properties
// surface to predicates.
func (o Option[T]) UnwrapOrZero() T {
	return o.val
}

// Get returns the value together with a presence flag.
func (o Option[T]) Get() (T, bool) {
	return o.val, o.valid
}

func (o Option[T]) String() string {
	if o.valid {
		return fmt.Sprintf("Some(%v)", o.val)
	}
	return "Nothing"
}
