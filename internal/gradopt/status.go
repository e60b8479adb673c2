package gradopt

// Status records why a minimization stopped.
type Status int

const (
	NotTerminated Status = iota
	IterationLimit
	FunctionConvergence
	RuntimeLimit
	Stagnation
	Interrupted
)

var statusNames = [...]string{
	NotTerminated:       "NotTerminated",
	IterationLimit:      "IterationLimit",
	FunctionConvergence: "FunctionConvergence",
	RuntimeLimit:        "RuntimeLimit",
	Stagnation:          "Stagnation",
	Interrupted:         "Interrupted",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Unknown"
	}
	return statusNames[s]
}

// Converged reports whether the run ended because the relative tolerance was
// met, as opposed to hitting a budget or being interrupted.
func (s Status) Converged() bool {
	return s == FunctionConvergence
}
