package sheet

import (
	"fmt"

	"custody/internal/pkg/errs"
)

// DestinationType is the kind of facility a sheet routes to.
type DestinationType int

const (
	UnknownDestination DestinationType = iota
	LMDC
	DC
	MMDC
	RTO
)

func getDestinationTypeStrings() map[DestinationType]string {
	return map[DestinationType]string{
		LMDC: "LMDC",
		DC:   "DC",
		MMDC: "MMDC",
		RTO:  "RTO",
	}
}

func ParseDestinationType(s string) (DestinationType, error) {
	for t, name := range getDestinationTypeStrings() {
		if name == s {
			return t, nil
		}
	}
	return UnknownDestination, errs.NewValueIsInvalidErrorWithCause("destination type",
		fmt.Errorf("%q is not a valid destination type", s))
}

func (t DestinationType) Validate() error {
	if _, ok := getDestinationTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("destination type",
			fmt.Errorf("%d is not a valid destination type", t))
	}
	return nil
}

func (t DestinationType) String() string {
	if s, ok := getDestinationTypeStrings()[t]; ok {
		return s
	}
	return "UNKNOWN"
}
