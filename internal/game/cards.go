package game

import (
	"encoding/json"
	"fmt"
)

type Color int

const (
	None Color = iota
	Red
	Yellow
	Green
	Blue
)

var colorString = map[Color]string{
	None:   "none",
	Red:    "red",
	Yellow: "yellow",
	Green:  "green",
	Blue:   "blue",
}

var colorFromString = map[string]Color{
	"none":   None,
	"red":    Red,
	"yellow": Yellow,
	"green":  Green,
	"blue":   Blue,
}

// Colors lists the four concrete card colors. None is excluded: it is only
// valid on wild-family cards that have not been assigned a color yet.
func Colors() []Color {
	return []Color{Red, Yellow, Green, Blue}
}

func (c Color) String() string {
	return colorString[c]
}

func (c Color) MarshalJSON() ([]byte, error) {
	s, ok := colorString[c]
	if !ok {
		return nil, fmt.Errorf("unknown color %d", int(c))
	}
	return json.Marshal(s)
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	color, ok := colorFromString[s]
	if !ok {
		return fmt.Errorf("unknown color %q", s)
	}
	*c = color
	return nil
}

type Kind int

const (
	Normal Kind = iota
	Skip
	Reverse
	DrawTwo
	Wild
	DrawFour
)

var kindString = map[Kind]string{
	Normal:   "normal",
	Skip:     "skip",
	Reverse:  "reverse",
	DrawTwo:  "draw_two",
	Wild:     "wild",
	DrawFour: "draw_four",
}

var kindFromString = map[string]Kind{
	"normal":    Normal,
	"skip":      Skip,
	"reverse":   Reverse,
	"draw_two":  DrawTwo,
	"wild":      Wild,
	"draw_four": DrawFour,
}

func (k Kind) String() string {
	return kindString[k]
}

func (k Kind) MarshalJSON() ([]byte, error) {
	s, ok := kindString[k]
	if !ok {
		return nil, fmt.Errorf("unknown kind %d", int(k))
	}
	return json.Marshal(s)
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, ok := kindFromString[s]
	if !ok {
		return fmt.Errorf("unknown kind %q", s)
	}
	*k = kind
	return nil
}

// Card is one playing card. Rank is only meaningful for Normal cards.
// Wild and DrawFour carry Color None until a player assigns one at play
// time; every other kind always carries a concrete color.
type Card struct {
	Kind  Kind  `json:"kind"`
	Color Color `json:"color"`
	Rank  int   `json:"rank"`
}

func (c Card) String() string {
	if c.Kind == Normal {
		return fmt.Sprintf("%s %d", c.Color, c.Rank)
	}
	if c.Color == None {
		return c.Kind.String()
	}
	return fmt.Sprintf("%s %s", c.Color, c.Kind)
}

// IsWild reports whether the card belongs to the wild family.
func (c Card) IsWild() bool {
	return c.Kind == Wild || c.Kind == DrawFour
}

// Ordinal maps a card onto the single rank scale used for matching:
// 0-9 for numeric cards, then Skip=10, Reverse=11, DrawTwo=12,
// DrawFour=13 and Wild=99.
func (c Card) Ordinal() int {
	switch c.Kind {
	case Normal:
		return c.Rank
	case Skip:
		return 10
	case Reverse:
		return 11
	case DrawTwo:
		return 12
	case DrawFour:
		return 13
	default:
		return 99
	}
}

// IsPlayable reports whether candidate may be played on top of facing.
// This is a one-directional legality predicate, not an equality relation:
// a wild-family card on either side makes the play legal, otherwise the
// candidate must share the facing card's color or ordinal rank.
func IsPlayable(candidate, facing Card) bool {
	if facing.IsWild() || candidate.IsWild() {
		return true
	}
	if candidate.Color == facing.Color {
		return true
	}
	return candidate.Ordinal() == facing.Ordinal()
}
