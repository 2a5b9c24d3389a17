package session

import (
	"github.com/google/uuid"

	"uno-server/internal/game"
	"uno-server/internal/protocol"
)

type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

// Sink is a player's private outbound message queue. Enqueue must never
// block; it reports false when the message could not be queued, which the
// transport treats as the connection being gone.
type Sink interface {
	Enqueue(protocol.Envelope) bool
}

// Player is one connected participant. Hand order matters: clients refer
// to cards by the order they received them. The server's copy of the hand
// is authoritative.
type Player struct {
	ID   uuid.UUID
	Name string
	Role Role
	Hand []game.Card
	sink Sink
}

func NewPlayer(id uuid.UUID, sink Sink) *Player {
	return &Player{ID: id, Role: RoleUser, sink: sink}
}

func (p *Player) send(e protocol.Envelope) bool {
	return p.sink.Enqueue(e)
}

// holdsCard reports whether the played card is present in the hand.
// Wild-family cards live in the hand uncolored and are matched by kind,
// since the player assigns the color at play time.
func (p *Player) holdsCard(card game.Card) bool {
	return p.findCard(card) >= 0
}

// removeCard takes the played card out of the hand. Returns false if the
// player does not hold it.
func (p *Player) removeCard(card game.Card) bool {
	i := p.findCard(card)
	if i < 0 {
		return false
	}
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return true
}

func (p *Player) findCard(card game.Card) int {
	for i, held := range p.Hand {
		if card.IsWild() {
			if held.Kind == card.Kind {
				return i
			}
			continue
		}
		if held == card {
			return i
		}
	}
	return -1
}
