package ingress

import "fmt"

// ValidationError is bad input rejected before any upload or provider call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IngressError is a failed upload, fetch, or generation. Ingress never
// partially succeeds: callers get a usable URL or one of these.
type IngressError struct {
	Op     string
	Reason string
	Err    error
}

func (e *IngressError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *IngressError) Unwrap() error { return e.Err }
