package orchestrator

// Helper outcome vocabulary.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Result is an orchestration helper outcome. Helpers never return Go
// errors: device trouble must not abort the business workflow that
// triggered the call, so failures land here and the caller decides
// what to surface.
type Result struct {
	// Status is StatusOK, StatusError or StatusSkipped.
	Status string `json:"status"`

	// Error carries the failure message when Status is StatusError.
	Error string `json:"error,omitempty"`

	// Details holds operation payloads: device step results, assigned
	// identifiers, skip reasons.
	Details map[string]interface{} `json:"details,omitempty"`
}

// OK reports whether the operation fully succeeded. Skipped is not OK:
// nothing ran.
func (r *Result) OK() bool {
	return r.Status == StatusOK
}

// Skipped reports whether the helper decided there was nothing to do.
func (r *Result) Skipped() bool {
	return r.Status == StatusSkipped
}

func okResult(details map[string]interface{}) *Result {
	return &Result{Status: StatusOK, Details: details}
}

func errorResult(err error) *Result {
	return &Result{Status: StatusError, Error: err.Error()}
}

func skippedResult(reason string) *Result {
	return &Result{
		Status:  StatusSkipped,
		Details: map[string]interface{}{"reason": reason},
	}
}

func (r *Result) withDetail(key string, v interface{}) *Result {
	if r.Details == nil {
		r.Details = map[string]interface{}{}
	}
	r.Details[key] = v
	return r
}
