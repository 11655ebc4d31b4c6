/*
adjustments.go - Reasonable-adjustment letter routing

PURPOSE:
  Adjustment letters are held back from bulk print and parked in a
  per-recipient bucket until the adjustment is actioned. Routing reads
  the bucket for one party, applies the ledger append rule to it, and
  leaves the other four buckets untouched.

INVARIANTS:
  1. Exactly one bucket is mutated per call.
  2. The party discriminator is exhaustive: an unknown value is an
     error, never a silent no-op.
  3. Each bucket is independently ordered newest-first.
*/
package ccd

import "fmt"

// Route appends newEntries into the bucket for party and returns a copy of
// the structure. existing may be nil, treated as empty. The other four
// buckets are carried over untouched.
func Route(existing *ReasonableAdjustmentLetters, newEntries []Correspondence, party PartyKind) (ReasonableAdjustmentLetters, error) {
	var out ReasonableAdjustmentLetters
	if existing != nil {
		out = *existing
	}

	switch party {
	case PartyAppellant:
		out.Appellant = AppendCorrespondence(out.Appellant, newEntries)
	case PartyAppointee:
		out.Appointee = AppendCorrespondence(out.Appointee, newEntries)
	case PartyRepresentative:
		out.Representative = AppendCorrespondence(out.Representative, newEntries)
	case PartyJointParty:
		out.JointParty = AppendCorrespondence(out.JointParty, newEntries)
	case PartyOtherParty:
		out.OtherParty = AppendCorrespondence(out.OtherParty, newEntries)
	default:
		return ReasonableAdjustmentLetters{}, fmt.Errorf("%w: %q", ErrUnknownParty, party)
	}
	return out, nil
}

// Bucket returns the letters for one party. Unknown kinds return nil.
func (r ReasonableAdjustmentLetters) Bucket(party PartyKind) []Correspondence {
	switch party {
	case PartyAppellant:
		return r.Appellant
	case PartyAppointee:
		return r.Appointee
	case PartyRepresentative:
		return r.Representative
	case PartyJointParty:
		return r.JointParty
	case PartyOtherParty:
		return r.OtherParty
	default:
		return nil
	}
}

// Outstanding reports whether any letter across all parties still requires
// an adjustment. Drives the case's reasonableAdjustmentsOutstanding flag.
func (r ReasonableAdjustmentLetters) Outstanding() bool {
	for _, party := range AllPartyKinds {
		for _, letter := range r.Bucket(party) {
			if letter.ReasonableAdjustmentStatus == AdjustmentRequired {
				return true
			}
		}
	}
	return false
}

// OutstandingFlag folds Outstanding into the case store's YesNo flag type.
func (r ReasonableAdjustmentLetters) OutstandingFlag() YesNo {
	if r.Outstanding() {
		return Yes
	}
	return No
}
