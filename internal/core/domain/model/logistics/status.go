package logistics

import (
	"fmt"

	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// Status is the courier-side progress of an order.
type Status int

const (
	Unknown Status = iota
	Processing
	Assigned
	InTransit
	Delivered
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Processing: "Processing",
		Assigned:   "Assigned",
		InTransit:  "InTransit",
		Delivered:  "Delivered",
		Failed:     "Failed",
	}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

func (s Status) Validate() error {
	if s <= Unknown || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid logistics status", s))
	}
	return nil
}

// ParseStatus converts the string form back to a Status.
func ParseStatus(str string) (Status, error) {
	for s, name := range getStatusStrings() {
		if s != Unknown && name == str {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid logistics status", str))
}

func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed
}

// CanMoveTo reports whether next is a forward step from s.
func (s Status) CanMoveTo(next Status) bool {
	if s.IsTerminal() || next.Validate() != nil {
		return false
	}
	if next == Failed {
		return true
	}
	return next > s
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
