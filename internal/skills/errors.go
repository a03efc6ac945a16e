package skills

import "fmt"

// ErrEmptyInput indicates a required input was missing or empty
type ErrEmptyInput struct {
	Field string
}

func (e *ErrEmptyInput) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
