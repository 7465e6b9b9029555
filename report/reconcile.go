package report

import (
	"sort"

	"github.com/xraph/books/id"
	"github.com/xraph/books/journal"
)

// Discrepancy is one posting batch that violates a posting rule
// expectation, found by the reconciliation sweep.
type Discrepancy struct {
	PostingID     id.PostingID          `json:"posting_id"`
	ReferenceType journal.ReferenceType `json:"reference_type"`
	ReferenceID   string                `json:"reference_id"`
	LegCount      int                   `json:"leg_count"`
	Problem       string                `json:"problem"`
}

// Reconcile groups entries by posting ID and flags invoice and bill
// postings whose leg count differs from expectedLegs, plus postings
// whose legs disagree on what document they reference. A clean journal
// returns an empty slice. Results are ordered by posting ID for stable
// output.
func Reconcile(entries []*journal.Entry, expectedLegs int) []Discrepancy {
	byPosting := make(map[id.PostingID][]*journal.Entry)
	for _, e := range entries {
		if e.PostingID.IsNil() {
			continue
		}
		byPosting[e.PostingID] = append(byPosting[e.PostingID], e)
	}

	var found []Discrepancy
	for pid, legs := range byPosting {
		first := legs[0]
		mixed := false
		for _, e := range legs[1:] {
			if e.ReferenceType != first.ReferenceType || e.ReferenceID != first.ReferenceID {
				mixed = true
				break
			}
		}
		if mixed {
			found = append(found, Discrepancy{
				PostingID:     pid,
				ReferenceType: first.ReferenceType,
				ReferenceID:   first.ReferenceID,
				LegCount:      len(legs),
				Problem:       "legs reference different documents",
			})
			continue
		}

		if first.ReferenceType != journal.RefInvoice && first.ReferenceType != journal.RefBill {
			continue
		}
		if len(legs) != expectedLegs {
			found = append(found, Discrepancy{
				PostingID:     pid,
				ReferenceType: first.ReferenceType,
				ReferenceID:   first.ReferenceID,
				LegCount:      len(legs),
				Problem:       "incomplete posting batch",
			})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].PostingID.String() < found[j].PostingID.String()
	})
	return found
}
