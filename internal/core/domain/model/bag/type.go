package bag

import (
	"fmt"

	"custody/internal/pkg/errs"
)

// Type classifies what a bag carries.
type Type int

const (
	UnknownType Type = iota
	Outbound
	FirstMile
	RTO
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		Outbound:  "OUTBOUND",
		FirstMile: "FIRST_MILE",
		RTO:       "RTO",
	}
}

// ParseType converts the wire name of a bag type.
func ParseType(s string) (Type, error) {
	for t, name := range getTypeStrings() {
		if name == s {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("bag type", fmt.Errorf("%q is not a valid bag type", s))
}

func (t Type) Validate() error {
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("bag type", fmt.Errorf("%d is not a valid bag type", t))
	}
	return nil
}

func (t Type) String() string {
	if s, ok := getTypeStrings()[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// RequiresContents reports whether the bag must hold at least one shipment
// before it can be sealed. Outbound-class bags (OUTBOUND and RTO) carry
// manifested shipments; first-mile bags may be pre-sealed empty at pickup.
func (t Type) RequiresContents() bool {
	return t == Outbound || t == RTO
}
