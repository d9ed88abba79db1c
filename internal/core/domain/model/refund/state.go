package refund

import (
	"fmt"

	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// State is the resolution state of a refund case.
type State int

const (
	StateUnknown State = iota
	Requested
	Approved
	Rejected
	Completed
)

func getStateStrings() map[State]string {
	return map[State]string{
		StateUnknown: "Unknown",
		Requested:    "Requested",
		Approved:     "Approved",
		Rejected:     "Rejected",
		Completed:    "Completed",
	}
}

func (s State) String() string {
	if str, ok := getStateStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

func (s State) Validate() error {
	if s <= StateUnknown || s > Completed {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%d is not a valid refund state", s))
	}
	return nil
}

// ParseState converts the string form back to a State.
func ParseState(str string) (State, error) {
	for s, name := range getStateStrings() {
		if s != StateUnknown && name == str {
			return s, nil
		}
	}
	return StateUnknown, errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a valid refund state", str))
}

// IsOpen reports whether the case still waits for a decision.
func (s State) IsOpen() bool {
	return s == Requested
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Decision is the answer of a seller or admin to an open case.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ParseDecision accepts "approve" or "reject".
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(s); d {
	case DecisionApprove, DecisionReject:
		return d, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%q is neither approve nor reject", s))
	}
}
