package enums

import "fmt"

// AdvisoryStatus tracks the outcome of an issued advisory. Every advisory
// starts pending and moves at most once to followed or ignored.
type AdvisoryStatus string

const (
	AdvisoryStatusPending  AdvisoryStatus = "pending"
	AdvisoryStatusFollowed AdvisoryStatus = "followed"
	AdvisoryStatusIgnored  AdvisoryStatus = "ignored"
)

var validAdvisoryStatuses = []AdvisoryStatus{
	AdvisoryStatusPending,
	AdvisoryStatusFollowed,
	AdvisoryStatusIgnored,
}

// IsValid reports whether the value matches a known advisory status.
func (s AdvisoryStatus) IsValid() bool {
	for _, candidate := range validAdvisoryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsResolved reports whether the status is a terminal outcome.
func (s AdvisoryStatus) IsResolved() bool {
	return s == AdvisoryStatusFollowed || s == AdvisoryStatusIgnored
}

// ParseAdvisoryStatus converts raw input into AdvisoryStatus.
func ParseAdvisoryStatus(value string) (AdvisoryStatus, error) {
	for _, candidate := range validAdvisoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid advisory status %q", value)
}
