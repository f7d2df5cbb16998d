package dynarray

// Hooks customizes how an Array creates and duplicates elements.
//
// A nil New yields the zero value of T; a nil Copy duplicates by assignment.
// Neither default can fail.
type Hooks[T any] struct {
	// New constructs a default element. Used by NewSized and Resize.
	New func() (T, error)

	// Copy duplicates an element. Used by NewFilled, FromList, Clone,
	// CopyFrom, Append and ResizeWith. Relocation during growth never calls
	// Copy.
	Copy func(T) (T, error)
}

func (h Hooks[T]) construct() (T, error) {
	if h.New == nil {
		var zero T
		return zero, nil
	}
	return h.New()
}

func (h Hooks[T]) duplicate(v T) (T, error) {
	if h.Copy == nil {
		return v, nil
	}
	return h.Copy(v)
}

// Option configures an Array at construction time.
type Option[T any] func(*Hooks[T])

// WithConstructor sets the default-element constructor.
func WithConstructor[T any](fn func() (T, error)) Option[T] {
	return func(h *Hooks[T]) { h.New = fn }
}

// WithCopier sets the element copy function.
func WithCopier[T any](fn func(T) (T, error)) Option[T] {
	return func(h *Hooks[T]) { h.Copy = fn }
}

// WithHooks replaces both hooks at once.
func WithHooks[T any](hooks Hooks[T]) Option[T] {
	return func(h *Hooks[T]) { *h = hooks }
}

func applyOptions[T any](opts []Option[T]) Hooks[T] {
	var h Hooks[T]
	for _, opt := range opts {
		opt(&h)
	}
	return h
}
