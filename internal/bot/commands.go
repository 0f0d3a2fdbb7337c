package bot

import (
	"github.com/bwmarrin/discordgo"
)

var minAmount = 0.01

// WalletCommands defines the wallet and lobby slash commands. Game commands
// come from the games registry.
var WalletCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "wallet",
		Description: "Show your NeonVegas balance",
	},
	{
		Name:        "deposit",
		Description: "Add funds to your wallet",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "amount",
				Description: "Amount in dollars",
				Required:    true,
				MinValue:    &minAmount,
			},
		},
	},
	{
		Name:        "withdraw",
		Description: "Cash out your winnings",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "amount",
				Description: "Amount in dollars, at least $10",
				Required:    true,
				MinValue:    &minAmount,
			},
		},
	},
	{
		Name:        "kyc",
		Description: "Verify your identity to unlock withdrawals",
	},
	{
		Name:        "history",
		Description: "Show your recent transactions",
	},
	{
		Name:        "refer",
		Description: "Redeem a friend's referral code",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "Your friend's referral code",
				Required:    true,
			},
		},
	},
	{
		Name:        "winners",
		Description: "See who just won big",
	},
	{
		Name:        "casino",
		Description: "List the tables",
	},
}

// Commands returns every slash command the bot serves
func (b *Bot) Commands() []*discordgo.ApplicationCommand {
	cmds := append([]*discordgo.ApplicationCommand{}, WalletCommands...)
	if b.games != nil {
		cmds = append(cmds, b.games.Commands()...)
	}
	return cmds
}

// registerCommands creates every slash command in the configured guild
func (b *Bot) registerCommands() error {
	for _, cmd := range b.Commands() {
		created, err := b.session.ApplicationCommandCreate(b.config.AppID, b.config.GuildID, cmd)
		if err != nil {
			return err
		}
		b.commands = append(b.commands, created)
	}
	b.log.Info("[BOT] Registered %d commands", len(b.commands))
	return nil
}

// cleanupCommands removes every command of the app from the guild
func (b *Bot) cleanupCommands() {
	registered, err := b.session.ApplicationCommands(b.config.AppID, b.config.GuildID)
	if err != nil {
		b.log.Error("[BOT] Error listing commands: %v", err)
		return
	}
	for _, cmd := range registered {
		if err := b.session.ApplicationCommandDelete(b.config.AppID, b.config.GuildID, cmd.ID); err != nil {
			b.log.Error("[BOT] Error deleting command %s: %v", cmd.Name, err)
		}
	}
	b.commands = b.commands[:0]
}
