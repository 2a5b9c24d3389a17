package session

import (
	"github.com/google/uuid"
)

// Direction is the rotation direction used to pick the next active player.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) Reversed() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

// After returns the id following current in the registry's join-order
// cycle, walking forwards or backwards depending on direction. A
// single-player registry cycles back to the same id. Returns false if
// current is not registered.
func (r *Registry) After(dir Direction, current uuid.UUID) (uuid.UUID, bool) {
	n := len(r.order)
	for i, id := range r.order {
		if id != current {
			continue
		}
		if dir == Forward {
			return r.order[(i+1)%n], true
		}
		return r.order[(i-1+n)%n], true
	}
	return uuid.Nil, false
}
