package game_test

import (
	"errors"
	"testing"

	"uno-server/internal/game"
)

func TestNewDeckComposition(t *testing.T) {
	for _, copies := range []int{1, 2, 3, 6} {
		deck := game.NewDeck(copies)
		if deck.DrawCount() != copies*game.CardsPerDeck {
			t.Errorf("NewDeck(%d) has %d cards, want %d", copies, deck.DrawCount(), copies*game.CardsPerDeck)
		}
		if deck.DiscardCount() != 0 {
			t.Errorf("NewDeck(%d) has %d discarded cards before start", copies, deck.DiscardCount())
		}
	}
}

func TestNewDeckCardBreakdown(t *testing.T) {
	deck := game.NewDeck(1)

	counts := map[game.Card]int{}
	for deck.DrawCount() > 0 {
		card, err := deck.Draw()
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		counts[card]++
	}

	for _, color := range game.Colors() {
		if n := counts[game.Card{Kind: game.Normal, Color: color, Rank: 0}]; n != 1 {
			t.Errorf("%s 0: got %d, want 1", color, n)
		}
		for rank := 1; rank <= 9; rank++ {
			if n := counts[game.Card{Kind: game.Normal, Color: color, Rank: rank}]; n != 2 {
				t.Errorf("%s %d: got %d, want 2", color, rank, n)
			}
		}
		for _, kind := range []game.Kind{game.Skip, game.Reverse, game.DrawTwo} {
			if n := counts[game.Card{Kind: kind, Color: color}]; n != 2 {
				t.Errorf("%s %s: got %d, want 2", color, kind, n)
			}
		}
	}
	if n := counts[game.Card{Kind: game.Wild, Color: game.None}]; n != 4 {
		t.Errorf("wild: got %d, want 4", n)
	}
	if n := counts[game.Card{Kind: game.DrawFour, Color: game.None}]; n != 4 {
		t.Errorf("draw four: got %d, want 4", n)
	}
}

func TestStartTurnsUpOneCard(t *testing.T) {
	deck := game.NewDeck(2)

	if err := deck.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	if deck.DrawCount() != 2*game.CardsPerDeck-1 {
		t.Errorf("draw pile has %d cards, want %d", deck.DrawCount(), 2*game.CardsPerDeck-1)
	}
	if deck.DiscardCount() != 1 {
		t.Errorf("discard pile has %d cards, want 1", deck.DiscardCount())
	}
	if _, ok := deck.Facing(); !ok {
		t.Error("no facing card after start")
	}
}

func TestFacingBeforeStart(t *testing.T) {
	deck := game.NewDeck(1)
	if _, ok := deck.Facing(); ok {
		t.Error("facing card reported before any card was turned up")
	}
	if _, err := deck.Play(game.Card{Kind: game.Normal, Color: game.Red, Rank: 1}); !errors.Is(err, game.ErrNoFacingCard) {
		t.Errorf("play before start: got %v, want ErrNoFacingCard", err)
	}
}

func TestPlayUpdatesFacing(t *testing.T) {
	deck := game.NewDeck(1)
	if err := deck.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	facing, _ := deck.Facing()
	candidate := game.Card{Kind: game.Normal, Color: facing.Color, Rank: 4}
	if facing.IsWild() {
		candidate = game.Card{Kind: game.Normal, Color: game.Red, Rank: 4}
	}

	played, err := deck.Play(candidate)
	if err != nil {
		t.Fatalf("play %v on %v: %v", candidate, facing, err)
	}
	if played != candidate {
		t.Errorf("play returned %v, want %v", played, candidate)
	}

	newFacing, _ := deck.Facing()
	if newFacing != candidate {
		t.Errorf("facing is %v after play, want %v", newFacing, candidate)
	}
	if deck.PlayedCount() != 1 {
		t.Errorf("played count is %d, want 1", deck.PlayedCount())
	}
}

func TestRejectedPlayLeavesDeckUntouched(t *testing.T) {
	deck := game.NewDeck(1)
	if err := deck.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	facing, _ := deck.Facing()
	if facing.IsWild() {
		t.Skip("facing card is wild; every play is legal")
	}

	// A normal card sharing neither color nor ordinal with the facing card.
	candidate := game.Card{Kind: game.Normal, Color: otherColor(facing.Color), Rank: (facing.Ordinal() + 1) % 10}

	if _, err := deck.Play(candidate); !errors.Is(err, game.ErrNotPlayable) {
		t.Fatalf("play: got %v, want ErrNotPlayable", err)
	}

	unchanged, _ := deck.Facing()
	if unchanged != facing {
		t.Errorf("facing changed to %v after rejected play", unchanged)
	}
	if deck.DiscardCount() != 1 {
		t.Errorf("discard pile has %d cards after rejected play, want 1", deck.DiscardCount())
	}
	if deck.PlayedCount() != 0 {
		t.Errorf("played count is %d after rejected play, want 0", deck.PlayedCount())
	}
}

func TestDrawReshufflesFromDiscard(t *testing.T) {
	deck := game.NewDeck(1)
	if err := deck.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Discard a few legal cards, then run the draw pile dry.
	for i := 0; i < 5; i++ {
		facing, _ := deck.Facing()
		candidate := game.Card{Kind: game.Normal, Color: facing.Color, Rank: facing.Ordinal() % 10}
		if facing.IsWild() {
			candidate = game.Card{Kind: game.Normal, Color: game.Red, Rank: 5}
		}
		if _, err := deck.Play(candidate); err != nil {
			t.Fatalf("play: %v", err)
		}
	}

	for deck.DrawCount() > 0 {
		if _, err := deck.Draw(); err != nil {
			t.Fatalf("draw: %v", err)
		}
	}

	total := deck.TotalCount()
	if total != 6 { // facing card + five discarded plays
		t.Fatalf("total pile size is %d, want 6", total)
	}

	facing, _ := deck.Facing()

	// Draw off the empty pile: the discard pile minus the facing card must
	// be shuffled back in, shrinking the combined piles by one per draw.
	for i := 1; i <= 5; i++ {
		if _, err := deck.Draw(); err != nil {
			t.Fatalf("draw %d after reshuffle: %v", i, err)
		}
		if deck.TotalCount() != total-i {
			t.Errorf("combined pile size is %d after %d draws, want %d", deck.TotalCount(), i, total-i)
		}
	}

	if kept, _ := deck.Facing(); kept != facing {
		t.Errorf("facing card changed during reshuffle: %v -> %v", facing, kept)
	}

	if _, err := deck.Draw(); !errors.Is(err, game.ErrExhausted) {
		t.Errorf("draw with only the facing card left: got %v, want ErrExhausted", err)
	}
}

func otherColor(c game.Color) game.Color {
	if c == game.Red {
		return game.Blue
	}
	return game.Red
}
