package loader

import (
	"errors"
	"fmt"
)

// ErrorCollector gathers every problem found while decoding one document
// so that a bad file reports all of its invalid colors at once.
type ErrorCollector struct {
	Errors []error

	// Max errors before we stop collecting
	// 0 => no limit
	MaxErrors int
}

func (f *ErrorCollector) HasErrors() bool {
	return len(f.Errors) > 0
}

func (i *ErrorCollector) AddErrors(errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if i.MaxErrors > 0 && len(i.Errors) >= i.MaxErrors {
			return
		}
		i.Errors = append(i.Errors, err)
	}
}

func (i *ErrorCollector) Errorf(format string, args ...any) {
	i.AddErrors(fmt.Errorf(format, args...))
}

// Err joins the collected errors, or returns nil if there are none.
func (i *ErrorCollector) Err() error {
	return errors.Join(i.Errors...)
}
