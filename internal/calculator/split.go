// Package calculator implements the equal-split arithmetic and the
// ephemeral split selection an admin builds before creating requests.
package calculator

import (
	"errors"
	"fmt"
)

// ErrInvalidSplitInput is returned when a split cannot be computed:
// missing or zero total, or nobody to split with. Callers must block the
// action and surface a validation message instead of computing a
// meaningless split.
var ErrInvalidSplitInput = errors.New("invalid split input")

// Split is the result of an equal-split computation.
type Split struct {
	// PerPerson is each person's share, rounded half-up.
	PerPerson int64

	// TotalPeople is the divisor: selected participants plus the admin
	// when self-inclusion is on.
	TotalPeople int
}

// EqualSplit divides totalAmount evenly across participantCount people,
// counting the admin as one more person when includeSelf is set.
//
// Each share is rounded half-up independently, matching how the amounts
// are applied per participant. When totalAmount does not divide evenly
// the remainder is dropped: sum(PerPerson * TotalPeople) may differ from
// totalAmount by up to TotalPeople/2 units. The total is advisory, so no
// participant is designated to absorb the difference.
func EqualSplit(totalAmount int64, participantCount int, includeSelf bool) (Split, error) {
	if totalAmount <= 0 {
		return Split{}, fmt.Errorf("%w: total amount must be positive, got %d", ErrInvalidSplitInput, totalAmount)
	}
	if participantCount <= 0 {
		return Split{}, fmt.Errorf("%w: at least one participant required", ErrInvalidSplitInput)
	}

	totalPeople := participantCount
	if includeSelf {
		totalPeople++
	}

	// Round half-up in integer arithmetic.
	perPerson := (totalAmount + int64(totalPeople)/2) / int64(totalPeople)

	return Split{PerPerson: perPerson, TotalPeople: totalPeople}, nil
}
