package textrun

import "fmt"

// PageError reports a page whose text could not be extracted. Err is
// usually a *text.RunError.
type PageError struct {
	Page int // 1-based
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }
