package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig marks a simulation configuration that fails validation.
// Callers can test for it with errors.Is and must not start a run after it.
var ErrInvalidConfig = errors.New("invalid simulation config")

// SimulationConfig is the immutable set of inputs for one simulation run.
// All paths of a run share these parameters; only the random draws differ.
//
// Fields:
//   - StartDate: first calendar date of the range, inclusive.
//   - EndDate: last calendar date of the range, inclusive. Must not precede StartDate.
//   - InitPrice: price level at the first business day. Must be positive.
//   - Mu: drift of the process per unit time. Any real value.
//   - Sigma: volatility of the process per unit time. Must be non-negative;
//     zero degenerates to a deterministic exponential trend.
//   - NumSims: number of independent paths to generate. At least 1.
type SimulationConfig struct {
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtefield=StartDate"`
	InitPrice float64   `validate:"gt=0"`
	Mu        float64
	Sigma     float64 `validate:"gte=0"`
	NumSims   int     `validate:"min=1"`
}

// validate is the shared validator instance. validator.New is expensive,
// so a single instance serves all Validate calls.
var validate = validator.New()

// Validate checks the parameter invariants and returns an error wrapping
// ErrInvalidConfig describing every violated field, or nil.
func (c SimulationConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, describeFieldError(fe))
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(parts, "; "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
}

// describeFieldError converts a validator error into a human-readable message.
func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not precede %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
