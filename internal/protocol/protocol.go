// Package protocol defines the JSON frames exchanged with clients. Every
// frame is one Envelope; Sender is the display name of the player a chat
// message is attributed to, or null for server-originated messages.
package protocol

import (
	"uno-server/internal/game"
)

type ActionType string

// Client-originated actions.
const (
	ActionSetName  ActionType = "set_name"
	ActionMessage  ActionType = "message"
	ActionStart    ActionType = "start"
	ActionDrawCard ActionType = "draw_card"
	ActionPlayCard ActionType = "play_card"
	ActionWin      ActionType = "win"
)

// Server-originated actions.
const (
	ActionStarted        ActionType = "started"
	ActionTopCard        ActionType = "top_card"
	ActionDrawnCard      ActionType = "drawn_card"
	ActionAcceptPlayCard ActionType = "accept_play_card"
	ActionDenyPlayCard   ActionType = "deny_play_card"
	ActionYourTurn       ActionType = "your_turn"
	ActionSkipped        ActionType = "skipped"
	ActionDrawTwo        ActionType = "draw_two"
	ActionDrawFour       ActionType = "draw_four"
)

// Action is the tagged payload of a frame. Which fields are set depends
// on Type: Name for set_name, Text for message, Card for play_card /
// top_card / drawn_card, Cards for started / draw_two / draw_four.
type Action struct {
	Type  ActionType  `json:"type"`
	Name  string      `json:"name,omitempty"`
	Text  string      `json:"text,omitempty"`
	Card  *game.Card  `json:"card,omitempty"`
	Cards []game.Card `json:"cards,omitempty"`
}

type Envelope struct {
	Sender *string `json:"sender"`
	Action Action  `json:"action"`
}

// ServerNotice is an unattributed chat message from the server itself.
func ServerNotice(text string) Envelope {
	return Envelope{Action: Action{Type: ActionMessage, Text: text}}
}

// Chat is a chat message attributed to the named player.
func Chat(sender, text string) Envelope {
	return Envelope{Sender: &sender, Action: Action{Type: ActionMessage, Text: text}}
}

// Started carries a player's opening hand.
func Started(hand []game.Card) Envelope {
	return Envelope{Action: Action{Type: ActionStarted, Cards: hand}}
}

// TopCard announces the new facing card.
func TopCard(card game.Card) Envelope {
	return Envelope{Action: Action{Type: ActionTopCard, Card: &card}}
}

// DrawnCard delivers a drawn card to the player who drew it.
func DrawnCard(card game.Card) Envelope {
	return Envelope{Action: Action{Type: ActionDrawnCard, Card: &card}}
}

// AcceptPlayCard acknowledges a legal play to its sender.
func AcceptPlayCard() Envelope {
	return Envelope{Action: Action{Type: ActionAcceptPlayCard}}
}

// DenyPlayCard rejects an illegal play to its sender.
func DenyPlayCard() Envelope {
	return Envelope{Action: Action{Type: ActionDenyPlayCard}}
}

// YourTurn tells the new active player to move.
func YourTurn() Envelope {
	return Envelope{Action: Action{Type: ActionYourTurn}}
}

// Skipped tells a player their turn was skipped.
func Skipped() Envelope {
	return Envelope{Action: Action{Type: ActionSkipped}}
}

// DrawTwoPenalty delivers the two penalty cards of a DrawTwo play.
func DrawTwoPenalty(cards []game.Card) Envelope {
	return Envelope{Action: Action{Type: ActionDrawTwo, Cards: cards}}
}

// DrawFourPenalty delivers the four penalty cards of a DrawFour play.
func DrawFourPenalty(cards []game.Card) Envelope {
	return Envelope{Action: Action{Type: ActionDrawFour, Cards: cards}}
}
