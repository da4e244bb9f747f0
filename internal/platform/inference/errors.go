package inference

import "fmt"

// ConfigError indicates the client cannot be constructed because required
// configuration (typically the bearer credential) is missing. It is not
// retryable by the request path; the operator has to fix the environment.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "inference: " + e.Reason
}

// UpstreamError indicates the completion service could not be reached or
// rejected the call. Status is zero when no HTTP response was received.
type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("inference: upstream call failed: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("inference: upstream returned HTTP %d: %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("inference: upstream returned HTTP %d: %s", e.Status, e.Body)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
