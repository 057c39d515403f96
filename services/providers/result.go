package providers

// Result is the outcome of a fallible operation: either Data or a failure Message.
// The zero value is a failure with an empty message.
type Result[T any] struct {
	data    T
	message string
	ok      bool
}

// Success wraps a value in a successful Result
func Success[T any](data T) Result[T] {
	return Result[T]{data: data, ok: true}
}

// Failure builds a failed Result carrying message
func Failure[T any](message string) Result[T] {
	return Result[T]{message: message}
}

// OK reports whether the result is a success
func (r Result[T]) OK() bool {
	return r.ok
}

// Data returns the success value (zero value on failure)
func (r Result[T]) Data() T {
	return r.data
}

// Message returns the failure message (empty on success)
func (r Result[T]) Message() string {
	return r.message
}

// Get returns the value and whether the result succeeded
func (r Result[T]) Get() (T, bool) {
	return r.data, r.ok
}
