package commentary

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/outcome"
	"github.com/shopspring/decimal"
)

const (
	UnavailableWin  = "Great win!"
	UnavailableLoss = "Better luck next time."
	FailedWin       = "Luck is on your side!"
	FailedLoss      = "The house always wins... eventually."
	EmptyText       = "Spin to win!"
)

const commentaryPrompt = `You are a charismatic, witty casino dealer in a cyberpunk casino called NeonVegas.
The player is playing %s.
The player just experienced a %s of $%s.
Give a short, punchy, 1-sentence comment reacting to this.
If they won, congratulate them but tempt them to bet more.
If they lost, be sympathetic but encourage a retry.
Keep it under 15 words.`

const strategyPrompt = `Analyze this game state: %s.
Return a single integer between 1 and 6 representing a dice roll or decision index.
Return ONLY the number.`

// Service is the Adapter backed by a text Generator. A nil generator means the
// model is not configured and every answer comes from the fallbacks.
type Service struct {
	gen    Generator
	src    outcome.Source
	logger *logging.Logger
}

var _ Adapter = (*Service)(nil)

func NewService(gen Generator, src outcome.Source, logger *logging.Logger) *Service {
	return &Service{gen: gen, src: src, logger: logger}
}

// Available reports whether a model backs the service
func (s *Service) Available() bool {
	return s.gen != nil
}

// Commentary returns a one-line dealer reaction to a finished round
func (s *Service) Commentary(ctx context.Context, game string, status entities.RoundStatus, amount decimal.Decimal) string {
	win := status == entities.RoundWin
	if s.gen == nil {
		if win {
			return UnavailableWin
		}
		return UnavailableLoss
	}

	text, err := s.gen.Generate(ctx, fmt.Sprintf(commentaryPrompt, game, status, amount.StringFixed(2)))
	if err != nil {
		s.logger.Warn("[COMMENTARY] generation failed for %s: %v", game, err)
		if win {
			return FailedWin
		}
		return FailedLoss
	}

	if text = strings.TrimSpace(text); text == "" {
		return EmptyText
	}
	return text
}

// StrategyValue asks the model for an integer in 1..6. Anything else,
// including an error, is replaced by a uniform die roll.
func (s *Service) StrategyValue(ctx context.Context, description string) int {
	if s.gen == nil {
		return s.roll()
	}

	text, err := s.gen.Generate(ctx, fmt.Sprintf(strategyPrompt, description))
	if err != nil {
		s.logger.Debug("[COMMENTARY] strategy failed: %v", err)
		return s.roll()
	}

	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > 6 {
		s.logger.Debug("[COMMENTARY] unusable strategy value %q", text)
		return s.roll()
	}
	return n
}

func (s *Service) roll() int {
	return outcome.Between(s.src, 1, 6)
}
