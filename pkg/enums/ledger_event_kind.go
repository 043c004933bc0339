package enums

import "fmt"

// LedgerEventKind classifies the audit events recorded on the integrity ledger.
type LedgerEventKind string

const (
	LedgerEventKindGenesis        LedgerEventKind = "genesis"
	LedgerEventKindSubsidyChecked LedgerEventKind = "subsidy_checked"
	LedgerEventKindRecValidated   LedgerEventKind = "recommendation_validated"
)

var validLedgerEventKinds = []LedgerEventKind{
	LedgerEventKindGenesis,
	LedgerEventKindSubsidyChecked,
	LedgerEventKindRecValidated,
}

// IsValid reports whether the value matches a known ledger event kind.
func (k LedgerEventKind) IsValid() bool {
	for _, candidate := range validLedgerEventKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseLedgerEventKind converts raw input into LedgerEventKind.
func ParseLedgerEventKind(value string) (LedgerEventKind, error) {
	for _, candidate := range validLedgerEventKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger event kind %q", value)
}
