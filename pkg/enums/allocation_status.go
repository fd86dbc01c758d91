package enums

import "fmt"

// AllocationStatus tracks a job-card part line through the repair lifecycle.
type AllocationStatus string

const (
	AllocationStatusRequested AllocationStatus = "requested"
	AllocationStatusUsed      AllocationStatus = "used"
	AllocationStatusReturned  AllocationStatus = "returned"
)

var validAllocationStatuses = []AllocationStatus{
	AllocationStatusRequested,
	AllocationStatusUsed,
	AllocationStatusReturned,
}

// IsValid reports whether the value is a known AllocationStatus.
func (s AllocationStatus) IsValid() bool {
	for _, candidate := range validAllocationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAllocationStatus converts raw input into an AllocationStatus.
func ParseAllocationStatus(value string) (AllocationStatus, error) {
	for _, candidate := range validAllocationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid allocation status %q", value)
}
