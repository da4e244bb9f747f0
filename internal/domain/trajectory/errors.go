package trajectory

import "fmt"

// FormatError indicates the completion service returned text that fails
// strict JSON/shape validation. Raw always carries the offending upstream
// text verbatim so it can be surfaced for diagnostics.
type FormatError struct {
	Reason string
	Raw    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("trajectory: malformed model response: %s", e.Reason)
}
