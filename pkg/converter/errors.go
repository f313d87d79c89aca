// pkg/converter/errors.go
package converter

import (
	"errors"
	"fmt"
)

// ErrParse matches every ParseError via errors.Is
var ErrParse = errors.New("parse error")

var (
	ErrMissingHeader = errors.New("header row is required")
	ErrInvalidUTF8   = errors.New("input is not valid UTF-8")
)

// ParseError reports input that cannot be decoded as a table
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match ErrParse
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
