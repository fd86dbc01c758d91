package enums

import "fmt"

// PartSource states where an allocated part comes from.
type PartSource string

const (
	PartSourceInventory PartSource = "inventory"
	PartSourceCustomer  PartSource = "customer"
	PartSourceExternal  PartSource = "external"
)

var validPartSources = []PartSource{
	PartSourceInventory,
	PartSourceCustomer,
	PartSourceExternal,
}

// IsValid reports whether the value is a known PartSource.
func (s PartSource) IsValid() bool {
	for _, candidate := range validPartSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePartSource converts raw input into a PartSource.
func ParsePartSource(value string) (PartSource, error) {
	for _, candidate := range validPartSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid part source %q", value)
}
