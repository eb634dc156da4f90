package entities

import (
	"fmt"
	"time"
)

// transitions enumerates every legal status change. A status missing from
// the map is terminal; a target missing from the slice is rejected.
var transitions = map[Status][]Status{
	StatusPending:   {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusPickedUp, StatusCancelled},
	StatusPickedUp:  {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusReturned, StatusCancelled},
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError names the current and the requested state of a
// rejected status change.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// Transition moves the order to the requested status. Terminal orders fail
// with ErrOrderTerminal, everything else not listed in the transition table
// fails with InvalidTransitionError. The order is untouched on failure.
func (o *Order) Transition(to Status) error {
	if o.Status.Terminal() {
		return ErrOrderTerminal
	}
	if !o.Status.CanTransition(to) {
		return &InvalidTransitionError{From: o.Status, To: to}
	}
	o.Status = to
	return nil
}

// Cancel is the only writer of CancellationReason and CancelledAt.
// A second cancel fails with ErrOrderTerminal rather than no-op, so caller
// misuse surfaces instead of being swallowed.
func (o *Order) Cancel(reason string, at time.Time) error {
	if reason == "" {
		return ErrReasonRequired
	}
	if err := o.Transition(StatusCancelled); err != nil {
		return err
	}
	o.CancellationReason = reason
	o.CancelledAt = &at
	return nil
}
