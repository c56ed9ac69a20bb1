package ownership

import "fmt"

// ConfigurationError reports a missing or unusable model specification.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DecodeError reports an alternative name whose vehicle counts cannot be read.
type DecodeError struct {
	Name   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode alternative %q: %s", e.Name, e.Reason)
}

type NoAvailableAlternativeError struct {
	HouseholdID int64
}

func (e *NoAvailableAlternativeError) Error() string {
	return fmt.Sprintf("HHID=%d: no available auto ownership alternatives to choose from", e.HouseholdID)
}

// InvariantViolation means the choice model and the alternative catalog
// disagree on the alternative set.
type InvariantViolation struct {
	HouseholdID  int64
	Chosen       int
	Alternatives int
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("HHID=%d: chosen alternative %d outside catalog of %d alternatives",
		e.HouseholdID, e.Chosen, e.Alternatives)
}
