package storefront

import (
	"fmt"

	"github.com/levelshop/backend/internal/domain/shared"
)

// OrderedRecord is a row of a collection displayed by ascending order and
// saved as a whole. T is the record type itself.
type OrderedRecord[T any] interface {
	RecordID() string
	SortOrder() int
	// Complete reports whether the row has every field the storefront shows
	Complete() bool
	// Sequenced returns a copy of the record with the given id and order
	Sequenced(id string, order int) T
}

// Resequence prepares an edited collection for a whole-collection save:
// incomplete rows are dropped, order is renumbered 1..N in the given
// sequence and rows without an id receive one from newID. An id repeated
// in records stays with its first row; later rows get a fresh id.
func Resequence[T OrderedRecord[T]](records []T, newID func() string) []T {
	supplied := make(map[string]bool, len(records))
	for _, r := range records {
		if r.Complete() && r.RecordID() != "" {
			supplied[r.RecordID()] = true
		}
	}

	used := make(map[string]bool, len(records))
	out := make([]T, 0, len(records))
	for _, r := range records {
		if !r.Complete() {
			continue
		}
		id := r.RecordID()
		if id == "" || used[id] {
			id = newID()
			for used[id] || supplied[id] {
				id = newID()
			}
		}
		used[id] = true
		out = append(out, r.Sequenced(id, len(out)+1))
	}
	return out
}

// CheckSequence reports whether records can be stored as a whole
// collection: ids unique and present, orders covering 1..N once each.
func CheckSequence[T OrderedRecord[T]](records []T) error {
	ids := make(map[string]bool, len(records))
	orders := make(map[int]bool, len(records))
	for i, r := range records {
		id, order := r.RecordID(), r.SortOrder()
		switch {
		case id == "":
			return shared.NewDomainError("INVALID_SEQUENCE", fmt.Sprintf("Row %d has no id", i+1))
		case ids[id]:
			return shared.NewDomainError("INVALID_SEQUENCE", fmt.Sprintf("Id %q appears more than once", id))
		case order < 1 || order > len(records) || orders[order]:
			return shared.NewDomainError("INVALID_SEQUENCE",
				fmt.Sprintf("Row %d has order %d outside a 1..%d sequence", i+1, order, len(records)))
		}
		ids[id] = true
		orders[order] = true
	}
	return nil
}
