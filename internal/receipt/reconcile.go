package receipt

import (
	"math"

	"paisa/internal/core"
	"paisa/internal/ledger"
)

// DefaultDescription labels a reconciled record whose extraction carried
// no usable description.
const DefaultDescription = "Receipt scan"

// Reconcile maps an extraction onto a ledger input, applying the
// defaulting policy field by field:
//
//	amount      present -> as-is (no positivity check), else 0
//	category    present -> as-is (folded to the enumeration), else miscellaneous
//	description present -> as-is, else "Receipt scan"
//	date        present & parseable -> as-is, else today
//
// Reconcile never rejects: a partial extraction yields a best-effort
// record for the user to correct afterwards.
func Reconcile(raw RawExtraction) ledger.Input {
	in := ledger.Input{
		Category:    core.Miscellaneous,
		Description: DefaultDescription,
		Date:        core.Today(),
	}
	if raw.Amount != nil {
		in.Amount = core.Money{Paise: int64(math.Round(*raw.Amount * 100))}
	}
	if raw.Category != nil {
		in.Category = core.NormalizeCategory(*raw.Category)
	}
	if raw.Description != nil && *raw.Description != "" {
		in.Description = *raw.Description
	}
	if raw.Date != nil {
		if d, err := core.ParseDate(*raw.Date); err == nil {
			in.Date = d
		}
	}
	return in
}
