package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/spaceout/spacefit/internal/core"
	"github.com/spaceout/spacefit/internal/registry"
	"github.com/spaceout/spacefit/internal/storage"
)

// summarizer is implemented by games that report more than a score.
type summarizer interface {
	Summary() core.RunSummary
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	runID      uuid.UUID
	quitting   bool
	runSaved   bool // Whether the current run has been persisted
}

// NewModel creates a new Bubble Tea model for the given game.
// The last terminal row is kept for the key help.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.Default()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		store:      store,
		logger:     logger.WithPrefix("tui"),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
		runID:      uuid.New(),
	}
}

// Init starts the tick loop. The game must already be Reset; see Run.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.fitScreen()
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.fitScreen()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quit()
		return m, tea.Quit
	}
	return m, nil
}

// fitScreen sizes the game screen to the rows left over by the help view.
func (m *Model) fitScreen() {
	rows := 1
	if m.help.ShowAll {
		for _, col := range m.keyMapper.Keys().FullHelp() {
			rows = max(rows, len(col))
		}
	}
	m.screen.Resize(m.config.ScreenW, max(m.config.ScreenH-rows, 1))
}

// quit persists an unfinished run and releases the game.
func (m *Model) quit() {
	m.quitting = true
	if m.gameState.Started && !m.gameState.GameOver {
		m.saveRun(storage.EndQuit)
	}
	if c, ok := m.game.(io.Closer); ok {
		c.Close()
	}
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.runID = uuid.New()
		m.runSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver {
		m.saveRun(storage.EndCrash)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveRun records the current run once. Saving is best effort.
func (m *Model) saveRun(reason string) {
	if m.runSaved || m.gameState.Score <= 0 {
		return
	}
	m.runSaved = true
	if m.store == nil {
		return
	}

	rec := storage.RunRecord{
		RunID:     m.runID,
		GameID:    m.game.ID(),
		Score:     m.gameState.Score,
		Coins:     m.gameState.Coins,
		EndReason: reason,
	}
	if s, ok := m.game.(summarizer); ok {
		sum := s.Summary()
		rec.Distance = sum.Distance
		rec.Recycles = sum.Recycles
		rec.Duration = sum.Duration
	}
	if _, err := m.store.SaveRun(rec); err != nil {
		m.logger.Warn("could not save run", "run", m.runID, "error", err)
		return
	}
	m.logger.Info("run saved", "run", m.runID, "score", rec.Score, "reason", reason)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".spacefit", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keyMapper.Keys())
}

// Run resets the game and runs it in the local terminal until quit.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	game.Reset(cfg)
	model := NewModel(game, store, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
