package routeros

// Step outcome vocabulary. A missing device object is data, not an
// error: delete/disable/enable of an absent key reports StatusNotFound
// and the operation carries on.
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// Device objects a step can touch.
const (
	StepSecret      = "ppp_secret"
	StepQueue       = "queue"
	StepAddressList = "address_list"
	StepLease       = "dhcp_lease"
	StepProfile     = "ppp_profile"
	StepIPAddress   = "ip_address"
)

// StepResult records one device mutation inside an operation.
type StepResult struct {
	// Step names the device object touched (StepSecret, StepQueue, ...).
	Step string `json:"step"`

	// Action is what was attempted: create, delete, disable, enable,
	// update, add, remove.
	Action string `json:"action"`

	// Status is StatusOK, StatusNotFound or StatusError.
	Status string `json:"status"`

	// Target is the logical key the step operated on (secret name,
	// queue name, MAC, "list/address").
	Target string `json:"target,omitempty"`

	// ID is the device-internal object id, when the step learned one.
	ID string `json:"id,omitempty"`

	// Error carries the failure message when Status is StatusError.
	Error string `json:"error,omitempty"`
}

// OpResult is the outcome of a compound operation: the steps that ran,
// in execution order. Steps are never rolled back; partial completion
// is visible per step.
type OpResult struct {
	// Op names the compound operation ("provision_fiber", ...).
	Op string `json:"op"`

	// Steps holds one result per device mutation, in order.
	Steps []StepResult `json:"steps"`
}

// OK reports whether no step hard-failed. Not-found steps count as
// success: the desired absence already holds.
func (r *OpResult) OK() bool {
	for _, s := range r.Steps {
		if s.Status == StatusError {
			return false
		}
	}
	return true
}

// Failed returns the steps that hard-failed.
func (r *OpResult) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if s.Status == StatusError {
			failed = append(failed, s)
		}
	}
	return failed
}

func stepOK(step, action, target, id string) StepResult {
	return StepResult{Step: step, Action: action, Status: StatusOK, Target: target, ID: id}
}

func stepNotFound(step, action, target string) StepResult {
	return StepResult{Step: step, Action: action, Status: StatusNotFound, Target: target}
}

func stepError(step, action, target string, err error) StepResult {
	return StepResult{Step: step, Action: action, Status: StatusError, Target: target, Error: err.Error()}
}
