package kernel

import (
	"fmt"
	"strings"

	"custody/internal/pkg/errs"

	"github.com/google/uuid"
)

// Code prefixes for generated human-readable codes.
const (
	BagCodePrefix   = "BAG"
	SheetCodePrefix = "CS"
	TripCodePrefix  = "TRP"
)

const codeSuffixLength = 10

// ErrCodeIsRequired is returned when a lookup is attempted with an empty code.
var ErrCodeIsRequired = errs.NewValueIsRequiredError("code")

// NewCode generates a human-readable code of the form PREFIX-ENTITY-XXXXXXXXXX,
// where ENTITY is the owning hub/entity id (upper-cased, spaces stripped) and the
// suffix is taken from a random UUID.
//
// Example:
//
//	kernel.NewCode(kernel.BagCodePrefix, "hub-1") // "BAG-HUB-1-3F2A9C01D4"
func NewCode(prefix, entityID string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	entity := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(entityID), " ", ""))
	if entity == "" {
		return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(raw[:codeSuffixLength]))
	}
	return fmt.Sprintf("%s-%s-%s", prefix, entity, strings.ToUpper(raw[:codeSuffixLength]))
}

// NormalizeCode trims and upper-cases a scanned code so lookups are insensitive
// to scanner casing and whitespace.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", ErrCodeIsRequired
	}
	return code, nil
}
