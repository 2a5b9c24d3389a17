package session

import (
	"github.com/google/uuid"
)

// Registry tracks the connected players. Alongside the id lookup it keeps
// an explicit insertion-ordered id sequence; the turn sequencer is defined
// over that sequence, never over map iteration order.
type Registry struct {
	players map[uuid.UUID]*Player
	order   []uuid.UUID
}

func NewRegistry() *Registry {
	return &Registry{
		players: make(map[uuid.UUID]*Player),
	}
}

// Insert adds a player. The first player to join an empty registry
// becomes admin.
func (r *Registry) Insert(p *Player) {
	if len(r.players) == 0 {
		p.Role = RoleAdmin
	}
	if _, exists := r.players[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.players[p.ID] = p
}

// Remove deletes a player and returns it, or nil if the id is unknown.
func (r *Registry) Remove(id uuid.UUID) *Player {
	p, exists := r.players[id]
	if !exists {
		return nil
	}
	delete(r.players, id)
	for i, ordered := range r.order {
		if ordered == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p
}

func (r *Registry) Get(id uuid.UUID) (*Player, bool) {
	p, exists := r.players[id]
	return p, exists
}

func (r *Registry) Count() int {
	return len(r.players)
}

// Order returns a snapshot of the player ids in join order.
func (r *Registry) Order() []uuid.UUID {
	order := make([]uuid.UUID, len(r.order))
	copy(order, r.order)
	return order
}

// Each visits every player in join order.
func (r *Registry) Each(visit func(*Player)) {
	for _, id := range r.order {
		visit(r.players[id])
	}
}
