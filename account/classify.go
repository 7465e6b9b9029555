package account

import "strings"

// Classify assigns a display subtype from the account type and name.
// Asset accounts whose name mentions a bank or cash balance are tagged
// as bank accounts; everything else is a generic accounting-service
// entry. The result is presentation metadata only; balance computation
// never consults it.
func Classify(t Type, name string) Subtype {
	if t != TypeAsset {
		return SubtypeAccountingService
	}

	lower := strings.ToLower(name)
	if strings.Contains(lower, "bank") || strings.Contains(lower, "cash") {
		return SubtypeBankAccount
	}
	return SubtypeAccountingService
}
