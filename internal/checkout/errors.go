package checkout

import "fmt"

// ValidationError rejects a request before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DownstreamError reports which write step failed.
type DownstreamError struct {
	Step string
	Err  error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("checkout %s: %v", e.Step, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}

const (
	StepCustomer = "customer"
	StepOrder    = "order"
	StepLines    = "lines"
)
