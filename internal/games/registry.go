package games

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/types"
)

// Registry holds the game managers by name
type Registry struct {
	managers map[string]Manager
	deps     *Deps
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry. deps is waited on by CloseAll.
func NewRegistry(deps *Deps) *Registry {
	return &Registry{
		managers: make(map[string]Manager),
		deps:     deps,
	}
}

// NewCasino registers every table game against deps
func NewCasino(deps *Deps) (*Registry, error) {
	r := NewRegistry(deps)
	for _, m := range []Manager{
		NewBlackjackManager(deps),
		NewSlotsManager(deps),
		NewRouletteManager(deps),
		NewCoinflipManager(deps),
		NewRPSManager(deps),
		NewLudoManager(deps),
	} {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a manager under its name
func (r *Registry) Register(m Manager) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.managers[m.Name()]; exists {
		return types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("Game %s is already registered", m.Name()))
	}

	r.managers[m.Name()] = m
	return nil
}

// Get returns the manager for a game name
func (r *Registry) Get(name string) (Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.managers[name]
	if !exists {
		return nil, types.NewGameError(types.ErrGameNotFound, fmt.Sprintf("Game %s not found", name))
	}

	return m, nil
}

// ForCustomID returns the manager owning a button custom ID
func (r *Registry) ForCustomID(id string) (Manager, error) {
	name, _, _ := strings.Cut(id, "_")
	return r.Get(name)
}

// List returns the registered game names in order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.managers))
	for name := range r.managers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commands returns the slash commands of every game
func (r *Registry) Commands() []*discordgo.ApplicationCommand {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]*discordgo.ApplicationCommand, 0, len(names))
	for _, name := range names {
		commands = append(commands, r.managers[name].Command())
	}
	return commands
}

// CloseAll closes every table and waits for queued commentary
func (r *Registry) CloseAll() {
	r.mu.RLock()
	for _, m := range r.managers {
		m.Close()
	}
	r.mu.RUnlock()

	if r.deps != nil {
		r.deps.Wait()
	}
}
