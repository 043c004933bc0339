package enums

import "fmt"

// AdvisoryKind identifies what an advisory tells the farmer to act on.
type AdvisoryKind string

const (
	AdvisoryKindIrrigation AdvisoryKind = "irrigation"
	AdvisoryKindFertilizer AdvisoryKind = "fertilizer"
	AdvisoryKindPesticide  AdvisoryKind = "pesticide"
	AdvisoryKindWeather    AdvisoryKind = "weather"
	AdvisoryKindPest       AdvisoryKind = "pest"
)

var validAdvisoryKinds = []AdvisoryKind{
	AdvisoryKindIrrigation,
	AdvisoryKindFertilizer,
	AdvisoryKindPesticide,
	AdvisoryKindWeather,
	AdvisoryKindPest,
}

// IsValid reports whether the value matches a known advisory kind.
func (k AdvisoryKind) IsValid() bool {
	for _, candidate := range validAdvisoryKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseAdvisoryKind converts raw input into AdvisoryKind.
func ParseAdvisoryKind(value string) (AdvisoryKind, error) {
	for _, candidate := range validAdvisoryKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid advisory kind %q", value)
}
