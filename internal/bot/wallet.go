package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
	"github.com/shopspring/decimal"
)

const historyLimit = 10

var typeLabels = map[entities.TransactionType]string{
	entities.TransactionDeposit:  "Deposit",
	entities.TransactionWithdraw: "Withdrawal",
	entities.TransactionGameFee:  "Game fee",
	entities.TransactionGameWin:  "Game win",
	entities.TransactionReferral: "Referral bonus",
}

// privateAction answers a wallet command for user
type privateAction func(ctx context.Context, user *discordgo.User, l *wallet.Ledger) (*discord.Response, error)

// reply acknowledges privately, signs the user up if needed, runs act and
// edits the acknowledgement with its answer
func (b *Bot) reply(i *discordgo.InteractionCreate, act privateAction) {
	user := discord.UserOf(i)
	if user == nil || user.ID == "" {
		b.replyError(i, types.NewGameError(types.ErrInvalidCommand, "Could not tell who you are"))
		return
	}

	if err := discord.Defer(b.session, i, true); err != nil {
		b.log.Error("[BOT] Error acknowledging %s: %v", user.ID, err)
		return
	}

	ctx := context.Background()
	resp, err := func() (*discord.Response, error) {
		l, err := b.wallets.GetOrCreate(ctx, user.ID, user.Username)
		if err != nil {
			return nil, err
		}
		return act(ctx, user, l)
	}()
	if err != nil {
		b.log.LogError(err)
		resp = discord.NewResponse(discord.ErrorText(err), nil)
	}

	if err := discord.EditResponse(b.session, i, resp); err != nil {
		b.log.Error("[BOT] Error answering %s: %v", user.ID, err)
	}
}

func (b *Bot) handleWallet(i *discordgo.InteractionCreate) {
	b.reply(i, func(ctx context.Context, user *discordgo.User, l *wallet.Ledger) (*discord.Response, error) {
		u, err := l.User(ctx)
		if err != nil {
			return nil, err
		}
		return discord.NewEmbedResponse(walletEmbed(u), nil), nil
	})
}

func (b *Bot) handleDeposit(i *discordgo.InteractionCreate) {
	amount := amountOption(i)
	b.reply(i, func(ctx context.Context, user *discordgo.User, l *wallet.Ledger) (*discord.Response, error) {
		if err := l.Deposit(ctx, amount); err != nil {
			return nil, err
		}
		return b.balanceReply(ctx, l, "✅ Deposited "+money(amount))
	})
}

func (b *Bot) handleWithdraw(i *discordgo.InteractionCreate) {
	amount := amountOption(i)
	b.reply(i, func(ctx context.Context, user *discordgo.User, l *wallet.Ledger) (*discord.Response, error) {
		if err := l.Withdraw(ctx, amount); err != nil {
			return nil, err
		}
		return b.balanceReply(ctx, l, "✅ Withdrew "+money(amount))
	})
}

func (b *Bot) handleKYC(i *discordgo.InteractionCreate) {
	b.reply(i, func(ctx context.Context, user *discordgo.User, l *wallet.Ledger) (*discord.Response, error) {
		u, err := l.User(ctx)
		if err != nil {
			return nil, err
		}
		if u.KYCVerified {
			return discord.NewResponse("🪪 You are already verified.", nil), nil
		}
		if err := l.VerifyKYC(ctx); err != nil {
			return nil, err
		}
		return discord.NewResponse("🪪 Identity verified. Withdrawals are unlocked.", nil), nil
	})
}

func (b *Bot) handleHistory(i *discordgo.InteractionCreate) {
	b.reply(i, func(ctx context.Context, user *discordgo.User, l *wallet.Ledger) (*discord.Response, error) {
		txns, err := l.Transactions(ctx)
		if err != nil {
			return nil, err
		}
		if len(txns) == 0 {
			return discord.NewResponse("📜 No transactions yet.", nil), nil
		}
		if len(txns) > historyLimit {
			txns = txns[:historyLimit]
		}

		lines := make([]string, len(txns))
		for n, t := range txns {
			sign := "-"
			if t.Type.IsCredit() {
				sign = "+"
			}
			lines[n] = fmt.Sprintf("`%s` %s **%s%s** (%s)", t.Timestamp.Format("Jan 02 15:04"), typeLabels[t.Type], sign, money(t.Amount), t.Status)
		}
		return discord.NewEmbedResponse(&discordgo.MessageEmbed{
			Title:       "📜 Recent transactions",
			Description: strings.Join(lines, "\n"),
		}, nil), nil
	})
}

func (b *Bot) handleRefer(i *discordgo.InteractionCreate) {
	code := ""
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "code" {
			code = opt.StringValue()
		}
	}
	b.reply(i, func(ctx context.Context, user *discordgo.User, l *wallet.Ledger) (*discord.Response, error) {
		referrer, err := b.referrals.Redeem(ctx, user.ID, user.Username, code)
		if err != nil {
			return nil, err
		}
		return discord.NewResponse(fmt.Sprintf("🎟️ You were referred by %s. They get a bonus when you make your first deposit.", referrer.Username), nil), nil
	})
}

func (b *Bot) handleWinners(i *discordgo.InteractionCreate) {
	entries := b.feed.Entries()
	content := "🏆 No winners yet. Be the first!"
	if len(entries) > 0 {
		content = "🏆 **Recent winners**\n" + strings.Join(entries, "\n")
	}
	if err := discord.SendResponse(b.session, i, discord.NewResponse(content, nil)); err != nil {
		b.log.Error("[BOT] Error showing winners: %v", err)
	}
}

func (b *Bot) handleCasino(i *discordgo.InteractionCreate) {
	lines := make([]string, 0)
	for _, name := range b.games.List() {
		m, err := b.games.Get(name)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("🎰 **%s** `/%s`", m.Title(), name))
	}
	embed := &discordgo.MessageEmbed{
		Title:       "Welcome to NeonVegas",
		Description: strings.Join(lines, "\n"),
		Footer:      &discordgo.MessageEmbedFooter{Text: "New players start with a $100 bonus. Use /deposit to add funds."},
	}
	if err := discord.SendResponse(b.session, i, discord.NewEmbedResponse(embed, nil)); err != nil {
		b.log.Error("[BOT] Error showing lobby: %v", err)
	}
}

// balanceReply confirms msg with the fresh wallet
func (b *Bot) balanceReply(ctx context.Context, l *wallet.Ledger, msg string) (*discord.Response, error) {
	u, err := l.User(ctx)
	if err != nil {
		return nil, err
	}
	resp := discord.NewEmbedResponse(walletEmbed(u), nil)
	resp.Content = msg
	return resp, nil
}

func walletEmbed(u *entities.User) *discordgo.MessageEmbed {
	kyc := "❌ Not verified"
	if u.KYCVerified {
		kyc = "✅ Verified"
	}
	return &discordgo.MessageEmbed{
		Title: "💳 " + u.Username + "'s wallet",
		Color: 0x9B59B6,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total", Value: "**" + money(u.Wallet.Total()) + "**"},
			{Name: "Deposit", Value: money(u.Wallet.Deposit), Inline: true},
			{Name: "Winnings", Value: money(u.Wallet.Winnings), Inline: true},
			{Name: "Bonus", Value: money(u.Wallet.Bonus), Inline: true},
			{Name: "KYC", Value: kyc, Inline: true},
			{Name: "Referral code", Value: "`" + u.ReferralCode + "`", Inline: true},
		},
	}
}

// amountOption reads the amount option rounded to cents
func amountOption(i *discordgo.InteractionCreate) decimal.Decimal {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "amount" {
			return decimal.NewFromFloat(opt.FloatValue()).Round(2)
		}
	}
	return decimal.Zero
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
