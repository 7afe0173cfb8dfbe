// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/morganforge/ollama-tui/internal/config"
	"github.com/morganforge/ollama-tui/internal/logging"
	"github.com/morganforge/ollama-tui/internal/model"
	"github.com/morganforge/ollama-tui/internal/ollama"
	"github.com/morganforge/ollama-tui/internal/ui/styles"
)

// Mode is the interaction mode of the session.
type Mode int

const (
	// ModeNormal browses the model catalog.
	ModeNormal Mode = iota
	// ModeEditing types into the input buffer and scrolls the log.
	ModeEditing
)

// chromeHeight is the number of screen rows reserved around the
// conversation viewport in Editing mode: title, divider, input, status.
const chromeHeight = 4

// Model is the session controller. It owns the catalog, editor, and log
// exclusively; all mutations run on the Bubble Tea update loop.
type Model struct {
	cfg    *config.Config
	theme  styles.Theme
	keys   KeyMap
	client *ollama.Client
	runner *StreamRunner

	mode    Mode
	catalog *model.Catalog
	editor  *model.Editor
	log     *model.Log

	// In-flight turn state. turn is nil when no stream is outstanding.
	turn       *model.Turn
	turnID     string
	current    *model.Message // growing assistant message (incremental policy)
	cancelTurn context.CancelFunc

	spinner spinner.Model
	width   int
	height  int

	// status carries transient user-visible conditions: probe failures,
	// load errors, hints. Cleared on the next successful action.
	status     string
	serverUp   bool
	probeDone  bool
	modelsSeen bool
	quitting   bool
}

// New builds the session in Normal mode with an empty log and editor.
func New(cfg *config.Config, client *ollama.Client) *Model {
	theme := styles.NewTheme(cfg.UI.Theme)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	m := &Model{
		cfg:     cfg,
		theme:   theme,
		keys:    DefaultKeyMap(),
		client:  client,
		mode:    ModeNormal,
		catalog: model.NewCatalog(),
		editor:  model.NewEditor(),
		log:     model.NewLog(),
		spinner: sp,
	}
	if cfg.Chat.Model != "" {
		// Preselected model from config: usable immediately, the catalog
		// highlight catches up when the list loads.
		entry := model.ModelEntry{Name: cfg.Chat.Model}
		m.catalog.ReplaceAll([]model.ModelEntry{entry})
		m.catalog.SelectNext()
		m.catalog.ConfirmSelection()
	}
	return m
}

// SetRunner attaches the stream runner once the program exists. The
// runner needs the program to send messages, and the program needs the
// model first, hence the two-step wiring.
func (m *Model) SetRunner(r *StreamRunner) {
	m.runner = r
}

// Init starts the server probe and catalog load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		CheckOllamaCmd(m.client),
		LoadModelsCmd(m.client),
	)
}

// =============================================================================
// UPDATE
// =============================================================================

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case OllamaStatusMsg:
		m.probeDone = true
		m.serverUp = msg.Err == nil
		if msg.Err != nil {
			m.status = "ollama is not reachable - press r to retry"
		}
		return m, nil

	case ModelsLoadedMsg:
		return m.handleModelsLoaded(msg), nil

	case StreamStartMsg:
		return m, nil

	case StreamFragmentMsg:
		return m.handleFragment(msg), nil

	case StreamCompleteMsg:
		return m.handleStreamComplete(msg), nil

	case StreamErrorMsg:
		return m.handleStreamError(msg), nil

	case ConfigReloadedMsg:
		m.cfg = msg.Config
		return m, nil

	case spinner.TickMsg:
		if m.awaitingFirstFragment() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) *Model {
	m.width = msg.Width
	m.height = msg.Height
	vh := msg.Height - chromeHeight
	if vh < 1 {
		vh = 1
	}
	vw := msg.Width
	if vw < 1 {
		vw = 1
	}
	m.log.SetViewportSize(vw, vh)
	return m
}

func (m *Model) handleModelsLoaded(msg ModelsLoadedMsg) *Model {
	if msg.Err != nil {
		// Recoverable: the catalog stays as it is and the condition is
		// shown until a reload succeeds.
		logging.L().Warn("model list load failed", zap.Error(msg.Err))
		m.status = "failed to load models - press r to retry"
		return m
	}
	m.modelsSeen = true
	m.status = ""

	entries := make([]model.ModelEntry, len(msg.Models))
	for i, info := range msg.Models {
		entries[i] = model.ModelEntry{
			Name:              info.Name,
			Size:              info.Size,
			Digest:            info.Digest,
			Family:            info.Details.Family,
			ParameterSize:     info.Details.ParameterSize,
			QuantizationLevel: info.Details.QuantizationLevel,
		}
	}
	m.catalog.ReplaceAll(entries)
	// Highlight the first entry so navigation starts from the top of
	// the list instead of nowhere.
	m.catalog.SelectNext()
	return m
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	switch m.mode {
	case ModeNormal:
		return m.handleNormalKey(msg)
	case ModeEditing:
		return m.handleEditingKey(msg)
	}
	return m, nil
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.SelectNext):
		m.catalog.SelectNext()

	case key.Matches(msg, m.keys.SelectPrevious):
		m.catalog.SelectPrevious()

	case key.Matches(msg, m.keys.Confirm):
		m.catalog.ConfirmSelection()

	case key.Matches(msg, m.keys.EnterEdit):
		if _, ok := m.catalog.ActiveModel(); ok {
			m.mode = ModeEditing
			m.status = ""
		} else {
			m.status = "confirm a model first (enter)"
		}

	case key.Matches(msg, m.keys.Reload):
		return m, tea.Batch(CheckOllamaCmd(m.client), LoadModelsCmd(m.client))
	}
	return m, nil
}

func (m *Model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Backspace):
		m.editor.DeleteBeforeCursor()
		return m, nil

	case key.Matches(msg, m.keys.CursorLeft):
		m.editor.MoveLeft()
		return m, nil

	case key.Matches(msg, m.keys.CursorRight):
		m.editor.MoveRight()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.log.ScrollBy(-1)
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.log.ScrollBy(1)
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.editor.InsertString(string(msg.Runes))
	case tea.KeySpace:
		m.editor.Insert(' ')
	}
	return m, nil
}

// quit tears the session down, dropping any in-flight stream. Fragments
// already folded stay in the log.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.cancelTurn != nil {
		m.cancelTurn()
	}
	m.quitting = true
	return m, tea.Quit
}

// =============================================================================
// SUBMISSION
// =============================================================================

// submit runs the submission protocol: snapshot the buffer, append the
// user turn, clear the editor, and start the stream. Empty buffers and
// in-flight turns are no-ops.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	if m.editor.Len() == 0 {
		return m, nil
	}
	if m.turn != nil {
		m.status = "still responding - wait for the turn to finish"
		return m, nil
	}
	active, ok := m.catalog.ActiveModel()
	if !ok {
		return m, nil
	}

	content := m.editor.Content()
	m.log.AppendUserTurn(active.Name, content)
	m.editor.Clear()
	m.log.ScrollToEnd()
	m.status = ""

	history := m.history()
	m.turn = model.NewTurn(active.Name)
	m.turnID = uuid.NewString()
	m.current = nil

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelTurn = cancel
	if m.runner != nil {
		m.runner.Run(ctx, m.turnID, active.Name, history)
	}
	return m, m.spinner.Tick
}

// history converts the log into the wire form, excluding system notices.
func (m *Model) history() []ollama.Message {
	var out []ollama.Message
	for _, msg := range m.log.Messages() {
		switch msg.Role {
		case model.RoleUser:
			out = append(out, ollama.NewUserMessage(msg.Content))
		case model.RoleAssistant:
			if msg.Content != "" {
				out = append(out, ollama.NewAssistantMessage(msg.Content))
			}
		}
	}
	return out
}

// =============================================================================
// STREAM EVENTS
// =============================================================================

func (m *Model) awaitingFirstFragment() bool {
	return m.turn != nil && m.turn.State() == model.TurnAwaitingFirst
}

func (m *Model) handleFragment(msg StreamFragmentMsg) *Model {
	if m.turn == nil || msg.TurnID != m.turnID {
		return m // stale fragment from a cancelled turn
	}
	m.turn.Observe(msg.Fragment)

	if m.cfg.Chat.FoldPolicy == config.FoldBatch {
		// Batch policy buffers in the turn; the log changes at the end.
		if m.turn.State() == model.TurnComplete {
			m.finishTurn()
		}
		return m
	}

	// Incremental policy: grow the message in place, following the tail
	// only while the user has not scrolled away.
	follow := m.log.AtEnd()
	m.current = m.log.AppendAssistantFragment(msg.Fragment)
	if follow {
		m.log.ScrollToEnd()
	}
	if m.turn.State() == model.TurnComplete {
		m.finishTurn()
	}
	return m
}

func (m *Model) handleStreamComplete(msg StreamCompleteMsg) *Model {
	if m.turn == nil || msg.TurnID != m.turnID {
		return m
	}
	// Stream ended without an explicit done fragment (server EOF).
	m.finishTurn()
	return m
}

func (m *Model) handleStreamError(msg StreamErrorMsg) *Model {
	if m.turn == nil || msg.TurnID != m.turnID {
		return m
	}
	m.turn.Fail(msg.Err)

	// Partial turns are kept: whatever arrived stays in the log.
	if m.cfg.Chat.FoldPolicy == config.FoldBatch && len(m.turn.Fragments()) > 0 {
		m.log.FoldTurn(m.turn)
	}
	if m.current != nil {
		m.current.CompleteStream()
	}

	m.log.AppendSystemNotice(streamErrorText(msg.Err))
	m.log.ScrollToEnd()
	m.clearTurn()
	return m
}

// finishTurn folds a completed turn per policy and resets stream state.
func (m *Model) finishTurn() {
	if m.turn == nil {
		return
	}
	if m.cfg.Chat.FoldPolicy == config.FoldBatch {
		if len(m.turn.Fragments()) > 0 {
			m.log.FoldTurn(m.turn)
		}
	} else if m.current != nil {
		m.current.CompleteStream()
	}
	m.log.ScrollToEnd()
	m.clearTurn()
}

func (m *Model) clearTurn() {
	if m.cancelTurn != nil {
		m.cancelTurn()
		m.cancelTurn = nil
	}
	m.turn = nil
	m.turnID = ""
	m.current = nil
}

func streamErrorText(err error) string {
	switch {
	case ollama.IsDecode(err):
		return fmt.Sprintf("response stream could not be decoded: %v", err)
	case ollama.IsNotRunning(err):
		return "connection lost: ollama is not running"
	case ollama.IsModelNotFound(err):
		return fmt.Sprintf("model not available: %v", err)
	default:
		return fmt.Sprintf("chat request failed: %v", err)
	}
}

// =============================================================================
// ACCESSORS FOR THE VIEW AND TESTS
// =============================================================================

// CurrentMode returns the interaction mode.
func (m *Model) CurrentMode() Mode { return m.mode }

// Catalog returns the model catalog.
func (m *Model) Catalog() *model.Catalog { return m.catalog }

// Editor returns the input editor.
func (m *Model) Editor() *model.Editor { return m.editor }

// Log returns the conversation log.
func (m *Model) Log() *model.Log { return m.log }

// Streaming reports whether a turn is in flight.
func (m *Model) Streaming() bool { return m.turn != nil }
