package diagnose

import (
	"errors"
	"fmt"
)

var ErrMissingAPIKey = errors.New("API key is not set")

// ServiceError marks a failure of the external model service. It never
// reflects a problem with the impulse data itself.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s diagnosis: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
