package entities

// Shuffler permutes a sequence; outcome.Source satisfies it
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type Deck struct {
	Cards []*Card
}

// NewDeck creates a new deck of 52 cards, one of each rank and suit
func NewDeck() *Deck {
	cards := make([]*Card, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}

	return &Deck{Cards: cards}
}

// NewDeckOf builds a deck that deals cards in the given order
func NewDeckOf(cards ...*Card) *Deck {
	return &Deck{Cards: append([]*Card(nil), cards...)}
}

func (d *Deck) Shuffle(s Shuffler) {
	s.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() *Card {
	if len(d.Cards) == 0 {
		return nil
	}
	card := d.Cards[0]
	d.Cards = d.Cards[1:]
	return card
}

// Remaining returns how many cards are left
func (d *Deck) Remaining() int {
	return len(d.Cards)
}
