package trip

import (
	"fmt"

	"custody/internal/pkg/errs"
)

// Source tells who operates the vehicle.
type Source int

const (
	UnknownSource Source = iota
	InternalTransfer
	Courier3PL
	Aggregator
	EnterpriseDirect
)

func getSourceStrings() map[Source]string {
	return map[Source]string{
		InternalTransfer: "INTERNAL_TRANSFER",
		Courier3PL:       "COURIER_3PL",
		Aggregator:       "AGGREGATOR",
		EnterpriseDirect: "ENTERPRISE_DIRECT",
	}
}

func ParseSource(s string) (Source, error) {
	for src, name := range getSourceStrings() {
		if name == s {
			return src, nil
		}
	}
	return UnknownSource, errs.NewValueIsInvalidErrorWithCause("trip source", fmt.Errorf("%q is not a valid trip source", s))
}

func (s Source) Validate() error {
	if _, ok := getSourceStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("trip source", fmt.Errorf("%d is not a valid trip source", s))
	}
	return nil
}

func (s Source) String() string {
	if str, ok := getSourceStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}
