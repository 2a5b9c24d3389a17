package game_test

import (
	"encoding/json"
	"testing"

	"uno-server/internal/game"
)

func TestIsPlayable(t *testing.T) {
	scenarios := []struct {
		name      string
		candidate game.Card
		facing    game.Card
		playable  bool
	}{
		{
			name:      "same color different rank",
			candidate: game.Card{Kind: game.Normal, Color: game.Red, Rank: 3},
			facing:    game.Card{Kind: game.Normal, Color: game.Red, Rank: 8},
			playable:  true,
		},
		{
			name:      "same rank different color",
			candidate: game.Card{Kind: game.Normal, Color: game.Blue, Rank: 5},
			facing:    game.Card{Kind: game.Normal, Color: game.Green, Rank: 5},
			playable:  true,
		},
		{
			name:      "different color and rank",
			candidate: game.Card{Kind: game.Normal, Color: game.Blue, Rank: 2},
			facing:    game.Card{Kind: game.Normal, Color: game.Green, Rank: 5},
			playable:  false,
		},
		{
			name:      "facing wild allows anything",
			candidate: game.Card{Kind: game.Normal, Color: game.Yellow, Rank: 1},
			facing:    game.Card{Kind: game.Wild, Color: game.None},
			playable:  true,
		},
		{
			name:      "facing colored draw four allows anything",
			candidate: game.Card{Kind: game.Normal, Color: game.Yellow, Rank: 1},
			facing:    game.Card{Kind: game.DrawFour, Color: game.Red},
			playable:  true,
		},
		{
			name:      "wild candidate is always playable",
			candidate: game.Card{Kind: game.Wild, Color: game.Green},
			facing:    game.Card{Kind: game.Normal, Color: game.Red, Rank: 7},
			playable:  true,
		},
		{
			name:      "skip matches skip across colors",
			candidate: game.Card{Kind: game.Skip, Color: game.Blue},
			facing:    game.Card{Kind: game.Skip, Color: game.Red},
			playable:  true,
		},
		{
			name:      "skip on unrelated normal card",
			candidate: game.Card{Kind: game.Skip, Color: game.Blue},
			facing:    game.Card{Kind: game.Normal, Color: game.Red, Rank: 9},
			playable:  false,
		},
		{
			name:      "reverse matches same color",
			candidate: game.Card{Kind: game.Reverse, Color: game.Green},
			facing:    game.Card{Kind: game.Normal, Color: game.Green, Rank: 0},
			playable:  true,
		},
		{
			name:      "draw two does not match reverse",
			candidate: game.Card{Kind: game.DrawTwo, Color: game.Yellow},
			facing:    game.Card{Kind: game.Reverse, Color: game.Blue},
			playable:  false,
		},
	}

	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			if got := game.IsPlayable(s.candidate, s.facing); got != s.playable {
				t.Errorf("IsPlayable(%v, %v) = %v, want %v", s.candidate, s.facing, got, s.playable)
			}
		})
	}
}

func TestOrdinal(t *testing.T) {
	scenarios := []struct {
		card game.Card
		want int
	}{
		{game.Card{Kind: game.Normal, Color: game.Red, Rank: 0}, 0},
		{game.Card{Kind: game.Normal, Color: game.Red, Rank: 9}, 9},
		{game.Card{Kind: game.Skip, Color: game.Blue}, 10},
		{game.Card{Kind: game.Reverse, Color: game.Blue}, 11},
		{game.Card{Kind: game.DrawTwo, Color: game.Blue}, 12},
		{game.Card{Kind: game.DrawFour, Color: game.None}, 13},
		{game.Card{Kind: game.Wild, Color: game.None}, 99},
	}

	for _, s := range scenarios {
		if got := s.card.Ordinal(); got != s.want {
			t.Errorf("%v.Ordinal() = %d, want %d", s.card, got, s.want)
		}
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	card := game.Card{Kind: game.DrawTwo, Color: game.Yellow}

	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	expected := `{"kind":"draw_two","color":"yellow","rank":0}`
	if string(data) != expected {
		t.Errorf("marshalled to %s, want %s", data, expected)
	}

	var decoded game.Card
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != card {
		t.Errorf("round trip gave %v, want %v", decoded, card)
	}
}

func TestCardJSONRejectsUnknownValues(t *testing.T) {
	var card game.Card
	if err := json.Unmarshal([]byte(`{"kind":"laser","color":"red"}`), &card); err == nil {
		t.Error("expected error for unknown kind")
	}
	if err := json.Unmarshal([]byte(`{"kind":"normal","color":"mauve"}`), &card); err == nil {
		t.Error("expected error for unknown color")
	}
}
