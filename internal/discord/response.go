package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/types"
)

// ResponseEmoji maps error codes to appropriate emojis
var ResponseEmoji = map[types.ErrorCode]string{
	types.ErrInsufficientFunds:    "💸",
	types.ErrKYCRequired:          "🪪",
	types.ErrInsufficientWinnings: "🏦",
	types.ErrBelowMinimum:         "📉",
	types.ErrUserNotFound:         "👤",
	types.ErrReferralInvalid:      "🎟️",
	types.ErrGameNotFound:         "🔍",
	types.ErrRoundInProgress:      "🎮",
	types.ErrInvalidState:         "⚠️",
	types.ErrInvalidAction:        "❌",
	types.ErrInvalidCommand:       "⛔",
	types.ErrInvalidArgument:      "❗",
	types.ErrInternalError:        "💥",
	types.ErrNetworkError:         "🌐",
	types.ErrDatabaseError:        "💾",
}

// Response represents a Discord interaction response
type Response struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
	Ephemeral  bool
}

// NewResponse creates a new Response
func NewResponse(content string, components []discordgo.MessageComponent) *Response {
	return &Response{
		Content:    content,
		Components: components,
		Ephemeral:  false,
	}
}

// NewEphemeralResponse creates a new ephemeral Response (only visible to the user)
func NewEphemeralResponse(content string, components []discordgo.MessageComponent) *Response {
	return &Response{
		Content:    content,
		Components: components,
		Ephemeral:  true,
	}
}

// NewEmbedResponse creates a Response carrying a single embed
func NewEmbedResponse(embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) *Response {
	return &Response{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	}
}

// ErrorText renders err for a player
func ErrorText(err error) string {
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		emoji := ResponseEmoji[gameErr.Code]
		if emoji == "" {
			emoji = "❌"
		}
		return fmt.Sprintf("%s %s", emoji, gameErr.Message)
	}
	return "❌ " + types.UserMessage(err)
}

// NewErrorResponse creates a new error Response
func NewErrorResponse(err error) *Response {
	return NewEphemeralResponse(ErrorText(err), nil)
}

// SendResponse sends a response to a Discord interaction
func SendResponse(s SessionHandler, i *discordgo.InteractionCreate, r *Response) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    r.Content,
			Embeds:     r.Embeds,
			Components: r.Components,
			Flags:      getFlags(r.Ephemeral),
		},
	})
}

// UpdateResponse updates the message a component belongs to
func UpdateResponse(s SessionHandler, i *discordgo.InteractionCreate, r *Response) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    r.Content,
			Embeds:     r.Embeds,
			Components: r.Components,
			Flags:      getFlags(r.Ephemeral),
		},
	})
}

// Defer acknowledges a slash command whose answer will take a while. The
// answer is delivered later with EditResponse.
func Defer(s SessionHandler, i *discordgo.InteractionCreate, ephemeral bool) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: getFlags(ephemeral),
		},
	})
}

// DeferUpdate acknowledges a button press whose message will be edited later
func DeferUpdate(s SessionHandler, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// EditResponse replaces the content of a deferred or earlier response
func EditResponse(s SessionHandler, i *discordgo.InteractionCreate, r *Response) error {
	embeds := r.Embeds
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	components := r.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &r.Content,
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}

// SendFollowup posts an extra message under an interaction
func SendFollowup(s SessionHandler, i *discordgo.InteractionCreate, content string) error {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: content,
	})
	return err
}

// SendErrorResponse sends an error response
func SendErrorResponse(s SessionHandler, i *discordgo.InteractionCreate, err error) error {
	return SendResponse(s, i, NewErrorResponse(err))
}

// UserOf returns whoever triggered the interaction, in a guild or a DM
func UserOf(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// Helper functions

func getFlags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// SendErrorFollowup reports err privately without touching the original message
func SendErrorFollowup(s SessionHandler, i *discordgo.InteractionCreate, err error) error {
	_, ferr := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: ErrorText(err),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return ferr
}
