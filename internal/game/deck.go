package game

import (
	"errors"
	"math/rand"
)

var (
	// ErrNoFacingCard is returned by Play before any card has been turned up.
	ErrNoFacingCard = errors.New("no facing card to play against")
	// ErrNotPlayable is returned by Play when the candidate does not match
	// the facing card.
	ErrNotPlayable = errors.New("card is not playable on the facing card")
	// ErrExhausted indicates both piles are empty. With closed card
	// accounting this should never happen; it means a bookkeeping bug.
	ErrExhausted = errors.New("draw and discard piles are both empty")
)

// Deck owns the three card piles of a running game: the face-down draw
// pile, the discard pile (top card = facing card) and the history of
// successfully played cards.
type Deck struct {
	drawPile    []Card
	discardPile []Card
	inPlay      []Card
}

// CardsPerDeck is the size of one standard deck composition.
const CardsPerDeck = 108

// NewDeck builds copies standard 108-card decks, concatenated and
// shuffled. Per color: one 0, two each of 1-9, two Skip, two Reverse and
// two DrawTwo; plus four Wild and four DrawFour, all uncolored.
func NewDeck(copies int) *Deck {
	cards := make([]Card, 0, copies*CardsPerDeck)

	for i := 0; i < copies; i++ {
		for _, color := range Colors() {
			cards = append(cards, Card{Kind: Normal, Color: color, Rank: 0})

			for rank := 1; rank <= 9; rank++ {
				cards = append(cards, Card{Kind: Normal, Color: color, Rank: rank})
				cards = append(cards, Card{Kind: Normal, Color: color, Rank: rank})
			}

			for _, kind := range []Kind{Skip, Reverse, DrawTwo} {
				cards = append(cards, Card{Kind: kind, Color: color})
				cards = append(cards, Card{Kind: kind, Color: color})
			}
		}

		for j := 0; j < 4; j++ {
			cards = append(cards, Card{Kind: Wild, Color: None})
			cards = append(cards, Card{Kind: DrawFour, Color: None})
		}
	}

	deck := &Deck{drawPile: cards}
	deck.shuffle()
	return deck
}

func (d *Deck) shuffle() {
	rand.Shuffle(len(d.drawPile), func(i, j int) {
		d.drawPile[i], d.drawPile[j] = d.drawPile[j], d.drawPile[i]
	})
}

// DrawCount returns the number of face-down cards left.
func (d *Deck) DrawCount() int {
	return len(d.drawPile)
}

// DiscardCount returns the number of cards on the discard pile.
func (d *Deck) DiscardCount() int {
	return len(d.discardPile)
}

// TotalCount returns the number of cards across both piles. Cards in the
// play history live on the discard pile and are not counted twice.
func (d *Deck) TotalCount() int {
	return len(d.drawPile) + len(d.discardPile)
}

// PlayedCount returns the number of cards successfully played so far.
func (d *Deck) PlayedCount() int {
	return len(d.inPlay)
}

// Facing returns the top of the discard pile, or false if no card has
// been turned up yet.
func (d *Deck) Facing() (Card, bool) {
	if len(d.discardPile) == 0 {
		return Card{}, false
	}
	return d.discardPile[len(d.discardPile)-1], true
}

// Start turns the top card of the draw pile face up to seed the discard
// pile. No legality check applies; there is nothing to match against.
func (d *Deck) Start() error {
	card, err := d.Draw()
	if err != nil {
		return err
	}
	d.discardPile = append(d.discardPile, card)
	return nil
}

// Draw removes and returns the top card of the draw pile. An empty draw
// pile is refilled by shuffling the discard pile back in, minus the
// current facing card.
func (d *Deck) Draw() (Card, error) {
	if len(d.drawPile) == 0 {
		d.reshuffle()
	}
	if len(d.drawPile) == 0 {
		return Card{}, ErrExhausted
	}

	card := d.drawPile[len(d.drawPile)-1]
	d.drawPile = d.drawPile[:len(d.drawPile)-1]
	return card, nil
}

// reshuffle moves every discarded card except the facing card back into
// the draw pile and shuffles.
func (d *Deck) reshuffle() {
	if len(d.discardPile) < 2 {
		return
	}

	top := len(d.discardPile) - 1
	d.drawPile = append(d.drawPile, d.discardPile[:top]...)
	d.discardPile = []Card{d.discardPile[top]}
	d.shuffle()
}

// Play validates candidate against the facing card. On success the
// candidate becomes the new facing card and is recorded in the play
// history; on failure the deck is left untouched.
func (d *Deck) Play(candidate Card) (Card, error) {
	facing, ok := d.Facing()
	if !ok {
		return Card{}, ErrNoFacingCard
	}
	if !IsPlayable(candidate, facing) {
		return Card{}, ErrNotPlayable
	}

	d.discardPile = append(d.discardPile, candidate)
	d.inPlay = append(d.inPlay, candidate)
	return candidate, nil
}
