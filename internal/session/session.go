// Package session owns the authoritative state of the single running game:
// phase, players, deck, rotation direction and whose turn it is. Every
// operation takes the session mutex, applies its full effect, and enqueues
// any resulting messages onto the players' outbound queues before
// returning, so concurrent callers observe a strict sequential order and
// no player can miss a broadcast.
package session

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"uno-server/internal/game"
	"uno-server/internal/protocol"
)

type Phase int

const (
	PhaseLobby Phase = iota
	PhaseInGame
	PhaseTerminal
)

const openingHandSize = 7

var (
	ErrUnknownPlayer = errors.New("player is not registered")
	ErrNotAdmin      = errors.New("only the admin can start the game")
	ErrWrongPhase    = errors.New("action is not valid in the current phase")
	ErrNotYourTurn   = errors.New("it is not this player's turn")
	ErrUnnamed       = errors.New("player has not set a name")
	ErrHandNotEmpty  = errors.New("win reported with a non-empty hand")
)

type Session struct {
	mu       sync.Mutex
	phase    Phase
	dir      Direction
	active   uuid.UUID
	deck     *game.Deck
	registry *Registry
}

func New() *Session {
	return &Session{
		registry: NewRegistry(),
	}
}

// Join registers a new connection. The first player in becomes admin and
// is told so.
func (s *Session) Join(id uuid.UUID, sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := NewPlayer(id, sink)
	s.registry.Insert(p)

	if p.Role == RoleAdmin {
		s.unicast(id, protocol.ServerNotice("You're admin! Please type START to start the game when you'd like"))
	}
}

// SetName sets a player's display name. Allowed in any phase. The first
// time a player names themselves, their arrival is announced to everyone.
func (s *Session) SetName(id uuid.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.registry.Get(id)
	if !ok {
		return ErrUnknownPlayer
	}

	previous := p.Name
	p.Name = name

	if previous == "" {
		s.broadcast(protocol.ServerNotice(fmt.Sprintf("%s has joined the party", name)))
	} else {
		s.broadcast(protocol.ServerNotice(fmt.Sprintf("%s is now known as %s", previous, name)))
	}
	return nil
}

// Chat broadcasts a player's chat message, attributed to their name. A
// nameless sender is told to pick one first; a null sender is reserved
// for server messages.
func (s *Session) Chat(id uuid.UUID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.registry.Get(id)
	if !ok {
		return ErrUnknownPlayer
	}
	if p.Name == "" {
		s.unicast(id, protocol.ServerNotice("Set a name before chatting"))
		return ErrUnnamed
	}
	s.broadcast(protocol.Chat(p.Name, text))
	return nil
}

// Start begins a round: a fresh deck scaled to the player count, seven
// cards to everyone, the requester to act first and the first card turned
// up. Only the admin may start, and only outside a running game; starting
// from the terminal phase is the rematch path.
func (s *Session) Start(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.registry.Get(id)
	if !ok {
		return ErrUnknownPlayer
	}
	if p.Role != RoleAdmin {
		return ErrNotAdmin
	}
	if s.phase == PhaseInGame {
		return ErrWrongPhase
	}

	deck := game.NewDeck(s.registry.Count())

	hands, err := dealHands(deck, s.registry.Order())
	if err != nil {
		return err
	}

	if err := deck.Start(); err != nil {
		return err
	}
	facing, _ := deck.Facing()

	s.deck = deck
	s.dir = Forward
	s.active = id
	s.phase = PhaseInGame

	s.registry.Each(func(member *Player) {
		member.Hand = hands[member.ID]
		member.send(protocol.Started(member.Hand))
	})
	s.broadcast(protocol.TopCard(facing))
	s.unicast(id, protocol.YourTurn())
	return nil
}

// dealHands draws an opening hand for each id, in order. On a draw error
// it stops immediately and returns nothing, so the players' hands are
// never touched by a failed deal.
func dealHands(deck *game.Deck, order []uuid.UUID) (map[uuid.UUID][]game.Card, error) {
	hands := make(map[uuid.UUID][]game.Card, len(order))
	for _, id := range order {
		hand := make([]game.Card, 0, openingHandSize)
		for i := 0; i < openingHandSize; i++ {
			card, err := deck.Draw()
			if err != nil {
				return nil, err
			}
			hand = append(hand, card)
		}
		hands[id] = hand
	}
	return hands, nil
}

// DrawCard draws one card for the active player and delivers it to them
// alone. The turn does not advance.
func (s *Session) DrawCard(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.registry.Get(id)
	if !ok {
		return ErrUnknownPlayer
	}
	if s.phase != PhaseInGame {
		return ErrWrongPhase
	}
	if s.active != id {
		return ErrNotYourTurn
	}

	card, err := s.deck.Draw()
	if err != nil {
		return err
	}
	p.Hand = append(p.Hand, card)
	s.unicast(id, protocol.DrawnCard(card))
	return nil
}

// PlayCard attempts to play a card for the active player. An accepted
// play removes the card from the server-held hand, announces the new
// facing card to everyone, applies any action-card effect and advances
// the turn. A rejected play answers deny_play_card to the requester and
// changes nothing.
func (s *Session) PlayCard(id uuid.UUID, card game.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.registry.Get(id)
	if !ok {
		return ErrUnknownPlayer
	}
	if s.phase != PhaseInGame {
		return ErrWrongPhase
	}
	if s.active != id {
		return ErrNotYourTurn
	}

	// Every played card needs a concrete color: wild-family cards arrive
	// with the color their sender chose. Normal ranks must be in range.
	if card.Color == game.None || (card.Kind == game.Normal && (card.Rank < 0 || card.Rank > 9)) {
		s.unicast(id, protocol.DenyPlayCard())
		return nil
	}

	if !p.holdsCard(card) {
		s.unicast(id, protocol.DenyPlayCard())
		return nil
	}

	if _, err := s.deck.Play(card); err != nil {
		if errors.Is(err, game.ErrNotPlayable) || errors.Is(err, game.ErrNoFacingCard) {
			s.unicast(id, protocol.DenyPlayCard())
			return nil
		}
		return err
	}

	p.removeCard(card)

	s.unicast(id, protocol.AcceptPlayCard())
	s.broadcast(protocol.TopCard(card))

	if card.Kind == game.Reverse {
		s.dir = s.dir.Reversed()
	}

	next, ok := s.registry.After(s.dir, id)
	if !ok {
		return nil
	}

	switch card.Kind {
	case game.Skip:
		s.unicast(next, protocol.Skipped())
		next = s.skipPast(next)
	case game.DrawTwo:
		s.penalize(next, 2)
		next = s.skipPast(next)
	case game.DrawFour:
		s.penalize(next, 4)
		next = s.skipPast(next)
	}

	s.active = next
	s.unicast(next, protocol.YourTurn())
	return nil
}

// skipPast advances one step beyond the given player.
func (s *Session) skipPast(id uuid.UUID) uuid.UUID {
	next, ok := s.registry.After(s.dir, id)
	if !ok {
		return id
	}
	return next
}

// penalize deals count penalty cards to the given player and tells them
// they lose their turn.
func (s *Session) penalize(id uuid.UUID, count int) {
	victim, ok := s.registry.Get(id)
	if !ok {
		return
	}

	cards := make([]game.Card, 0, count)
	for i := 0; i < count; i++ {
		card, err := s.deck.Draw()
		if err != nil {
			log.Printf("penalty draw failed: %v", err)
			break
		}
		cards = append(cards, card)
	}
	victim.Hand = append(victim.Hand, cards...)

	if count == 2 {
		victim.send(protocol.DrawTwoPenalty(cards))
	} else {
		victim.send(protocol.DrawFourPenalty(cards))
	}
	victim.send(protocol.Skipped())
}

// ReportWin handles a player's claim that their hand is empty. The claim
// is checked against the server-held hand; an honest win ends the round
// and returns the session to a state the admin can restart from.
func (s *Session) ReportWin(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.registry.Get(id)
	if !ok {
		return ErrUnknownPlayer
	}
	if s.phase != PhaseInGame {
		return ErrWrongPhase
	}
	if len(p.Hand) != 0 {
		return ErrHandNotEmpty
	}

	s.phase = PhaseTerminal
	s.deck = nil
	s.active = uuid.Nil
	s.dir = Forward
	s.registry.Each(func(member *Player) {
		member.Hand = nil
	})

	s.broadcast(protocol.ServerNotice(fmt.Sprintf("%s has won the game!", p.Name)))
	s.broadcast(protocol.ServerNotice("The admin can type START for a rematch"))
	return nil
}

// Leave removes a player, repairing the turn and the admin role if
// either pointed at them. Called by the transport on disconnect.
func (s *Session) Leave(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.registry.Get(id)
	if !ok {
		return
	}

	// Advance the turn off the leaving player before their id vanishes
	// from the cycle.
	if s.phase == PhaseInGame && s.active == id {
		if next, ok := s.registry.After(s.dir, id); ok && next != id {
			s.active = next
			s.unicast(next, protocol.YourTurn())
		}
	}

	s.registry.Remove(id)

	if s.registry.Count() == 0 {
		s.phase = PhaseLobby
		s.deck = nil
		s.active = uuid.Nil
		s.dir = Forward
		return
	}

	if p.Role == RoleAdmin {
		s.promoteAdmin()
	}

	if p.Name != "" {
		s.broadcast(protocol.ServerNotice(fmt.Sprintf("%s has left the party", p.Name)))
	}
}

// promoteAdmin hands the admin role to the earliest-joined remaining
// player so the session is never left without one.
func (s *Session) promoteAdmin() {
	order := s.registry.Order()
	if len(order) == 0 {
		return
	}
	successor, ok := s.registry.Get(order[0])
	if !ok {
		return
	}
	successor.Role = RoleAdmin
	s.unicast(successor.ID, protocol.ServerNotice("You're admin now! Type START to start the next game"))
}

// Phase returns the current session phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// PlayerCount returns the number of connected players.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Count()
}

// broadcast enqueues a message for every player, in join order, before
// the owning operation releases the session lock.
func (s *Session) broadcast(e protocol.Envelope) {
	s.registry.Each(func(p *Player) {
		if !p.send(e) {
			log.Printf("dropping message for player %s: outbound queue unavailable", p.ID)
		}
	})
}

func (s *Session) unicast(id uuid.UUID, e protocol.Envelope) {
	p, ok := s.registry.Get(id)
	if !ok {
		return
	}
	if !p.send(e) {
		log.Printf("dropping message for player %s: outbound queue unavailable", p.ID)
	}
}
