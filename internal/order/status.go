package order

import "craftconnect-be/internal/identity"

// validNext encodes the order state machine: forward along
// pending -> confirmed -> shipped -> delivered, or out to cancelled from
// pending/confirmed. Terminal states have no exits.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) Terminal() bool {
	return len(validNext[s]) == 0
}

// authorizeTransition gates transitions by the actor's relationship to the
// order: the artisan advances the order forward, and either side may cancel.
func authorizeTransition(actor identity.Actor, o *Order, target Status) error {
	if target == StatusCancelled {
		if actor.ID == o.BuyerID || actor.ID == o.ArtisanID {
			return nil
		}
		return ErrForbidden
	}
	if actor.ID == o.ArtisanID {
		return nil
	}
	return ErrForbidden
}
