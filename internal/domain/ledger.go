package domain

import "time"

// LedgerLine is pure-debit or pure-credit, never both, and never negative.
type LedgerLine struct {
	AccountID string
	Debit     Money
	Credit    Money
}

type LedgerEntry struct {
	ID                 string
	EntryNumber        string
	ExternalReference  string
	Description        string
	PostedAt           time.Time
	Lines              []LedgerLine
	CreatedAt          time.Time
}

// ValidateBalance enforces Σdebits = Σcredits and that every line is
// pure-debit or pure-credit with non-negative amounts. This runs before the
// entry ever reaches storage; the deferred constraint trigger re-checks it
// as the authority under concurrency.
func ValidateBalance(lines []LedgerLine) error {
	if len(lines) == 0 {
		return ValidationError("lines", "a ledger entry requires at least one line")
	}
	var debits, credits Money
	for i, l := range lines {
		if l.Debit < 0 || l.Credit < 0 {
			return ValidationError("lines", "ledger line amounts must be non-negative")
		}
		if l.Debit != 0 && l.Credit != 0 {
			return ValidationError("lines", "ledger line must be pure-debit or pure-credit")
		}
		if l.Debit == 0 && l.Credit == 0 {
			return ValidationError("lines", "ledger line must carry a nonzero amount")
		}
		debits += l.Debit
		credits += l.Credit
		_ = i
	}
	if debits != credits {
		return ValidationError("lines", "ledger entry is unbalanced: debits and credits must be equal")
	}
	return nil
}
