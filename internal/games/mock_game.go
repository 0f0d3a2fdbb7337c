package games

import (
	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/stretchr/testify/mock"
)

// MockManager implements Manager for testing
type MockManager struct {
	mock.Mock
}

func (m *MockManager) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockManager) Title() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockManager) Command() *discordgo.ApplicationCommand {
	args := m.Called()
	cmd, _ := args.Get(0).(*discordgo.ApplicationCommand)
	return cmd
}

func (m *MockManager) HandleStart(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	m.Called(s, i)
}

func (m *MockManager) HandleButton(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	m.Called(s, i)
}

func (m *MockManager) Close() {
	m.Called()
}
