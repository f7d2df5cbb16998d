package scenario

import (
	"errors"
	"fmt"

	"github.com/roach88/dynarray/internal/dynarray"
)

// ErrInjected is the cause carried by every scripted hook failure.
var ErrInjected = errors.New("injected fault")

// faultInjector counts an array's hook calls and fails the configured one.
type faultInjector struct {
	constructAt int
	copyAt      int
	constructs  int
	copies      int
}

func newFaultInjector(f *Faults) *faultInjector {
	if f == nil || (f.FailConstructAt == 0 && f.FailCopyAt == 0) {
		return nil
	}
	return &faultInjector{constructAt: f.FailConstructAt, copyAt: f.FailCopyAt}
}

// options returns the hooks that route through the injector. A nil injector
// yields no options, so the array keeps its default hooks.
func options[T element](f *faultInjector) []dynarray.Option[T] {
	if f == nil {
		return nil
	}
	var opts []dynarray.Option[T]
	if f.constructAt > 0 {
		opts = append(opts, dynarray.WithConstructor(func() (T, error) {
			var zero T
			f.constructs++
			if f.constructs == f.constructAt {
				return zero, fmt.Errorf("%w: constructor call %d", ErrInjected, f.constructs)
			}
			return zero, nil
		}))
	}
	if f.copyAt > 0 {
		opts = append(opts, dynarray.WithCopier(func(v T) (T, error) {
			f.copies++
			if f.copies == f.copyAt {
				var zero T
				return zero, fmt.Errorf("%w: copy call %d", ErrInjected, f.copies)
			}
			return v, nil
		}))
	}
	return opts
}
