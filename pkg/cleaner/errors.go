// pkg/cleaner/errors.go
package cleaner

import (
	"errors"
	"fmt"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// ErrImputation matches every ImputationError via errors.Is
var ErrImputation = errors.New("imputation error")

// ErrInvalidConfig wraps cleaning config validation failures
var ErrInvalidConfig = errors.New("invalid cleaning config")

// ImputationError reports a fill strategy that has no valid fill value
type ImputationError struct {
	Column   string
	Strategy model.MissingStrategy
}

func (e *ImputationError) Error() string {
	return fmt.Sprintf("cannot apply %s to column %q: column has no non-null values", e.Strategy, e.Column)
}

// Is makes every ImputationError match ErrImputation
func (e *ImputationError) Is(target error) bool {
	return target == ErrImputation
}
