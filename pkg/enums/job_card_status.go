package enums

import "fmt"

// JobCardStatus tracks a repair order through the workshop.
type JobCardStatus string

const (
	JobCardStatusOpen       JobCardStatus = "open"
	JobCardStatusInProgress JobCardStatus = "in_progress"
	JobCardStatusOnHold     JobCardStatus = "on_hold"
	JobCardStatusCompleted  JobCardStatus = "completed"
	JobCardStatusInvoiced   JobCardStatus = "invoiced"
)

var validJobCardStatuses = []JobCardStatus{
	JobCardStatusOpen,
	JobCardStatusInProgress,
	JobCardStatusOnHold,
	JobCardStatusCompleted,
	JobCardStatusInvoiced,
}

// IsValid reports whether the value is a known JobCardStatus.
func (s JobCardStatus) IsValid() bool {
	for _, candidate := range validJobCardStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseJobCardStatus converts raw input into a JobCardStatus.
func ParseJobCardStatus(value string) (JobCardStatus, error) {
	for _, candidate := range validJobCardStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job card status %q", value)
}
