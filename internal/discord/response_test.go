package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	discordmock "github.com/fadedpez/neonvegas/internal/discord/mock"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
	session     *discordmock.SessionHandler
	interaction *discordgo.InteractionCreate
}

func TestResponseSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) SetupTest() {
	s.session = &discordmock.SessionHandler{}
	s.session.Test(s.T())
	s.interaction = &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:   "test_interaction",
			Type: discordgo.InteractionApplicationCommand,
		},
	}
}

func (s *ResponseTestSuite) TestNewResponse() {
	components := []discordgo.MessageComponent{
		discordgo.Button{
			Label: "Test Button",
			Style: discordgo.PrimaryButton,
		},
	}

	resp := NewResponse("test content", components)

	s.Equal("test content", resp.Content)
	s.Equal(components, resp.Components)
	s.False(resp.Ephemeral)
	s.True(NewEphemeralResponse("secret", nil).Ephemeral)
}

func (s *ResponseTestSuite) TestErrorText() {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "plain error is not leaked",
			err:      errors.New("sql: database is locked"),
			expected: "❌ Something went wrong, please try again.",
		},
		{
			name:     "game error",
			err:      types.NewGameError(types.ErrInsufficientFunds, "Insufficient balance for this bet"),
			expected: "💸 Insufficient balance for this bet",
		},
		{
			name:     "kyc",
			err:      types.NewGameError(types.ErrKYCRequired, types.MsgKYCRequired),
			expected: "🪪 KYC Verification Required",
		},
		{
			name:     "unmapped code",
			err:      types.NewGameError(types.ErrorCode("SOMETHING_NEW"), "new"),
			expected: "❌ new",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, ErrorText(tc.err))
			s.True(NewErrorResponse(tc.err).Ephemeral)
		})
	}
}

func (s *ResponseTestSuite) TestSendResponse() {
	s.session.On("InteractionRespond", s.interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Type == discordgo.InteractionResponseChannelMessageWithSource &&
			r.Data.Content == "hello" && r.Data.Flags == 0
	})).Return(nil)

	err := SendResponse(s.session, s.interaction, NewResponse("hello", nil))

	s.NoError(err)
	s.session.AssertExpectations(s.T())
}

func (s *ResponseTestSuite) TestSendErrorResponseIsEphemeral() {
	s.session.On("InteractionRespond", s.interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Data.Flags == discordgo.MessageFlagsEphemeral
	})).Return(nil)

	err := SendErrorResponse(s.session, s.interaction, types.NewGameError(types.ErrInvalidState, "nope"))

	s.NoError(err)
	s.session.AssertExpectations(s.T())
}

func (s *ResponseTestSuite) TestUpdateResponse() {
	s.session.On("InteractionRespond", s.interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Type == discordgo.InteractionResponseUpdateMessage
	})).Return(nil)

	s.NoError(UpdateResponse(s.session, s.interaction, NewResponse("updated", nil)))
	s.session.AssertExpectations(s.T())
}

func (s *ResponseTestSuite) TestDeferThenEdit() {
	s.session.On("InteractionRespond", s.interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Type == discordgo.InteractionResponseDeferredChannelMessageWithSource
	})).Return(nil).Once()
	s.session.On("InteractionResponseEdit", s.interaction.Interaction, mock.MatchedBy(func(e *discordgo.WebhookEdit) bool {
		return e.Content != nil && *e.Content == "done" && e.Components != nil && len(*e.Components) == 0
	})).Return(&discordgo.Message{}, nil).Once()

	s.NoError(Defer(s.session, s.interaction, false))
	s.NoError(EditResponse(s.session, s.interaction, NewResponse("done", nil)))

	s.session.AssertExpectations(s.T())
}

func (s *ResponseTestSuite) TestDeferUpdate() {
	s.session.On("InteractionRespond", s.interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Type == discordgo.InteractionResponseDeferredMessageUpdate
	})).Return(nil)

	s.NoError(DeferUpdate(s.session, s.interaction))
	s.session.AssertExpectations(s.T())
}

func (s *ResponseTestSuite) TestSendFollowup() {
	s.session.On("FollowupMessageCreate", s.interaction.Interaction, false, mock.MatchedBy(func(p *discordgo.WebhookParams) bool {
		return p.Content == "Great win!"
	})).Return(&discordgo.Message{}, nil)

	s.NoError(SendFollowup(s.session, s.interaction, "Great win!"))
	s.session.AssertExpectations(s.T())
}

func (s *ResponseTestSuite) TestUserOf() {
	member := &discordgo.User{ID: "guild-user"}
	dm := &discordgo.User{ID: "dm-user"}

	inGuild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: &discordgo.Member{User: member}}}
	inDM := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: dm}}

	s.Same(member, UserOf(inGuild))
	s.Same(dm, UserOf(inDM))
}
