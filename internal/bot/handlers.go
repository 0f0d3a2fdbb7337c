package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/fadedpez/neonvegas/internal/types"
)

// handleSlashCommand handles all slash commands
func (b *Bot) handleSlashCommand(i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	switch name {
	case "wallet":
		b.handleWallet(i)
	case "deposit":
		b.handleDeposit(i)
	case "withdraw":
		b.handleWithdraw(i)
	case "kyc":
		b.handleKYC(i)
	case "history":
		b.handleHistory(i)
	case "refer":
		b.handleRefer(i)
	case "winners":
		b.handleWinners(i)
	case "casino":
		b.handleCasino(i)
	default:
		m, err := b.games.Get(name)
		if err != nil {
			b.log.Warn("[BOT] Unknown command: %s", name)
			b.replyError(i, types.NewGameError(types.ErrInvalidCommand, "Unknown command"))
			return
		}
		m.HandleStart(b.session, i)
	}
}

// handleMessageComponent hands a button press to the game that drew it
func (b *Bot) handleMessageComponent(i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	m, err := b.games.ForCustomID(customID)
	if err != nil {
		b.log.Warn("[BOT] Unknown component interaction: %s", customID)
		b.replyError(i, err)
		return
	}
	m.HandleButton(b.session, i)
}

func (b *Bot) replyError(i *discordgo.InteractionCreate, err error) {
	if rerr := discord.SendErrorResponse(b.session, i, err); rerr != nil {
		b.log.Error("[BOT] Error responding to interaction: %v", rerr)
	}
}
