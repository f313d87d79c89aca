// pkg/metrics/status.go
package metrics

import (
	"context"
	"errors"

	"github.com/David-Botos/raw-to-ready/pkg/cleaner"
	"github.com/David-Botos/raw-to-ready/pkg/converter"
)

// Status is the outcome label of a cleaning run
type Status string

const (
	StatusSuccess       Status = "success"
	StatusParse         Status = "parse_error"
	StatusImputation    Status = "imputation_error"
	StatusInvalidConfig Status = "invalid_config"
	StatusCanceled      Status = "canceled"
	StatusError         Status = "error"
)

// Categorize maps a run error to its status. Unknown errors are StatusError.
func Categorize(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, converter.ErrParse):
		return StatusParse
	case errors.Is(err, cleaner.ErrImputation):
		return StatusImputation
	case errors.Is(err, cleaner.ErrInvalidConfig):
		return StatusInvalidConfig
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusError
	}
}
