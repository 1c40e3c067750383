// Package registry maps game IDs to factories. Games register themselves
// in init(), so the CLI and the SSH server can build them by name.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/spaceout/spacefit/internal/core"
)

// Game is a fixed-tick simulation driven by the platform.
// Implementations hold no terminal or network state; the platform owns
// input mapping, timing and drawing.
type Game interface {
	// ID is the stable identifier used by the CLI and the run store.
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts a fresh run for the given screen size and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one tick of cfg.TickDelta() seconds.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen buffer.
	Render(dst *core.Screen)

	State() core.GameState
}

// ErrUnknownGame is returned by Create for an unregistered ID.
var ErrUnknownGame = errors.New("registry: unknown game")

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new game instance.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a factory. Panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns the registered games sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates the game registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}

	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
