// Package errs provides the error taxonomy shared by the custody service.
//
// Errors fall into four categories, each with a sentinel reachable via errors.Is:
//   - validation: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - referential: ObjectNotFoundError
//   - state conflict: StateConflictError (operation not legal in the current status)
//   - integrity: IntegrityViolationError (would break the chain of custody)
//
// Domain packages declare their named conditions as values of these types and
// wrap them with context, so callers can match either the condition or its category.
package errs
