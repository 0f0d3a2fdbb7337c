package blackjack

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/games/common"
	"github.com/fadedpez/neonvegas/pkg/outcome"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
	"github.com/shopspring/decimal"
)

// Game is a single-seat blackjack table against the house dealer
type Game struct {
	bank        wallet.Bank
	src         outcome.Source
	dealerDelay time.Duration
	life        *common.Lifetime
	newDeck     func() *entities.Deck

	mu     sync.Mutex
	state  entities.GameState
	bet    decimal.Decimal
	round  common.Round
	deck   *entities.Deck
	player *Hand
	dealer *Hand
	last   *entities.RoundResult
}

// View is a read-only snapshot of the table
type View struct {
	State      entities.GameState
	Bet        decimal.Decimal
	Player     *Hand
	Dealer     *Hand
	HoleHidden bool // dealer's second card is face down
	Result     *entities.RoundResult
}

func NewGame(bank wallet.Bank, src outcome.Source, dealerDelay time.Duration) *Game {
	g := &Game{
		bank:        bank,
		src:         src,
		dealerDelay: dealerDelay,
		life:        common.NewLifetime(),
		state:       entities.StateBetting,
		bet:         decimal.NewFromInt(MinBet),
		player:      NewHand(),
		dealer:      NewHand(),
	}
	g.newDeck = g.shuffledDeck
	return g
}

func (g *Game) Name() string {
	return "blackjack"
}

func (g *Game) State() entities.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// View returns a snapshot safe to render
func (g *Game) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()

	return View{
		State:      g.state,
		Bet:        g.bet,
		Player:     g.player.Clone(),
		Dealer:     g.dealer.Clone(),
		HoleHidden: g.state == entities.StatePlaying,
		Result:     g.last,
	}
}

// SetBet changes the wager between hands. Bets are multiples of BetStep and at
// least MinBet.
func (g *Game) SetBet(amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.idleLocked() {
		return types.NewGameError(types.ErrInvalidState, "You can't change your bet during a hand")
	}
	if amount < MinBet || amount%BetStep != 0 {
		return types.NewGameError(types.ErrInvalidArgument, "Bets must be at least $10, in steps of $10")
	}
	g.bet = decimal.NewFromInt(amount)
	return nil
}

// AdjustBet moves the wager by delta, never below MinBet
func (g *Game) AdjustBet(delta int64) error {
	g.mu.Lock()
	current := g.bet.IntPart()
	g.mu.Unlock()

	next := current + delta
	if next < MinBet {
		next = MinBet
	}
	return g.SetBet(next)
}

// Deal places the bet and deals a fresh hand from a newly shuffled deck. A
// natural 21 resolves the hand at once and the result is returned.
func (g *Game) Deal(ctx context.Context) (*entities.RoundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.life.Done() {
		return nil, types.NewGameError(types.ErrInvalidState, "This table is closed")
	}
	if !g.idleLocked() {
		return nil, types.NewGameError(types.ErrInvalidState, "A hand is already in play")
	}

	ctx, release := g.life.Bind(ctx)
	defer release()

	round, err := g.bank.OpenRound(ctx, g.bet)
	if err != nil {
		return nil, err
	}

	g.round = round
	g.deck = g.newDeck()
	g.player = NewHand()
	g.dealer = NewHand()
	g.last = nil

	for i := 0; i < 2; i++ {
		g.player.AddCard(g.deck.Draw())
	}
	for i := 0; i < 2; i++ {
		g.dealer.AddCard(g.deck.Draw())
	}
	g.state = entities.StatePlaying

	if IsNatural(g.player.Cards) {
		return g.finishLocked(ctx, ResultBlackjack)
	}
	return nil, nil
}

// Hit draws a card for the player. A bust resolves the hand.
func (g *Game) Hit(ctx context.Context) (*entities.RoundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != entities.StatePlaying {
		return nil, types.NewGameError(types.ErrInvalidState, "There is no hand to hit")
	}

	ctx, release := g.life.Bind(ctx)
	defer release()

	g.player.AddCard(g.deck.Draw())
	if g.player.IsBust() {
		return g.finishLocked(ctx, ResultBust)
	}
	return nil, nil
}

// Stand ends the player's turn and plays out the dealer, one card per dealer
// delay, until the dealer reaches 17 or busts.
func (g *Game) Stand(ctx context.Context) (*entities.RoundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != entities.StatePlaying {
		return nil, types.NewGameError(types.ErrInvalidState, "There is no hand to stand on")
	}

	ctx, release := g.life.Bind(ctx)
	defer release()

	g.player.Stand()
	g.state = entities.StateDealer

	for g.dealer.Value() < DealerStandsOn {
		g.mu.Unlock()
		err := common.Sleep(ctx, g.dealerDelay)
		g.mu.Lock()
		if err == nil {
			err = g.life.Err(ctx)
		}
		if err != nil {
			g.abandonLocked()
			return nil, err
		}
		if g.round == nil || g.state != entities.StateDealer {
			return nil, types.NewGameError(types.ErrInvalidState, "This hand is over")
		}
		g.dealer.AddCard(g.deck.Draw())
	}

	return g.finishLocked(ctx, Compare(g.player.Cards, g.dealer.Cards))
}

// Close discards any hand in play. Its bet is forfeited.
func (g *Game) Close() {
	g.life.Close()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.abandonLocked()
}

func (g *Game) finishLocked(ctx context.Context, result Result) (*entities.RoundResult, error) {
	if g.round == nil {
		return nil, types.NewGameError(types.ErrInvalidState, "This hand is over")
	}
	if err := g.life.Err(ctx); err != nil {
		g.abandonLocked()
		return nil, err
	}

	g.state = entities.StateResolving
	res, err := common.Resolve(ctx, g.round, result.Multiplier(), result.Message())
	g.round = nil
	g.state = entities.StateComplete
	if err != nil {
		return nil, err
	}
	g.last = res
	return res, nil
}

func (g *Game) abandonLocked() {
	if g.round != nil {
		g.round.Forfeit()
		g.round = nil
	}
	if g.state != entities.StateBetting {
		g.state = entities.StateComplete
	}
}

func (g *Game) idleLocked() bool {
	return g.state == entities.StateBetting || g.state == entities.StateComplete
}

func (g *Game) shuffledDeck() *entities.Deck {
	deck := entities.NewDeck()
	deck.Shuffle(g.src)
	return deck
}
