package blackjack

import (
	"errors"
	"strings"

	"github.com/fadedpez/neonvegas/pkg/entities"
)

var (
	ErrHandBust    = errors.New("hand is bust")
	ErrHandStand   = errors.New("hand is stand")
	ErrInvalidCard = errors.New("invalid card")
)

// Status represents the current state of the hand
type Status string

const (
	StatusPlaying Status = "PLAYING"
	StatusBust    Status = "BUST"
	StatusStand   Status = "STAND"
)

// Hand is a set of cards dealt to the player or the dealer
type Hand struct {
	Cards  []*entities.Card
	Status Status
}

func NewHand() *Hand {
	return &Hand{
		Cards:  make([]*entities.Card, 0),
		Status: StatusPlaying,
	}
}

// AddCard adds a card to the hand and busts it past 21
func (h *Hand) AddCard(card *entities.Card) error {
	switch h.Status {
	case StatusBust:
		return ErrHandBust
	case StatusStand:
		return ErrHandStand
	}

	if card == nil {
		return ErrInvalidCard
	}

	h.Cards = append(h.Cards, card)

	if GetBestScore(h.Cards) > 21 {
		h.Status = StatusBust
	}
	return nil
}

// Stand marks the hand as stood
func (h *Hand) Stand() error {
	switch h.Status {
	case StatusBust:
		return ErrHandBust
	case StatusStand:
		return ErrHandStand
	}

	h.Status = StatusStand
	return nil
}

// Value returns the best possible score for the hand
func (h *Hand) Value() int {
	return GetBestScore(h.Cards)
}

func (h *Hand) IsBust() bool {
	return h.Status == StatusBust
}

// Clone copies the hand so callers can read it without holding the game lock
func (h *Hand) Clone() *Hand {
	return &Hand{
		Cards:  append([]*entities.Card(nil), h.Cards...),
		Status: h.Status,
	}
}

// String renders the cards, e.g. "A♠ 10♥"
func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
