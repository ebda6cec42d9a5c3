package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
	"github.com/runoshun/taskflow/internal/view"
)

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies
	container *app.Container
	err       error

	// Board state
	sprint  *domain.Sprint
	columns []view.Column
	status  string
	focusID string // Task to focus after the next reload
	asking  bool   // A suggestion request has been issued and not answered

	// Components
	keys       KeyMap
	styles     Styles
	help       help.Model
	titleInput textinput.Model

	board    domain.BoardType
	progress view.Progress

	mode   Mode
	width  int
	height int
	col    int // Focused column
	row    int // Focused task within the column
}

// New creates a new TUI Model with the given container.
func New(c *app.Container) *Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 200

	board := domain.BoardKanban
	if c.AppConfig != nil && c.AppConfig.Board.Default.IsValid() {
		board = c.AppConfig.Board.Default
	}

	return &Model{
		container:  c,
		keys:       DefaultKeyMap(),
		styles:     DefaultStyles(),
		help:       help.New(),
		titleInput: ti,
		board:      board,
		mode:       ModeNormal,
	}
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.loadBoard()
}

// loadBoard returns a command that rebuilds the current board.
func (m *Model) loadBoard() tea.Cmd {
	board := m.board
	return func() tea.Msg {
		out, err := m.container.ShowBoardUseCase().Execute(context.Background(), usecase.ShowBoardInput{Board: board})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgBoardLoaded{Out: out}
	}
}

func (m *Model) createTask(title string) tea.Cmd {
	board := m.board
	return func() tea.Msg {
		out, err := m.container.NewTaskUseCase().Execute(context.Background(), usecase.NewTaskInput{
			Title:     title,
			BoardType: board,
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskCreated{Task: out.Task}
	}
}

func (m *Model) moveTask(id string, dir usecase.MoveDirection) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.MoveTaskUseCase().Execute(context.Background(), usecase.MoveTaskInput{
			TaskID:    id,
			Direction: dir,
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskMoved{Task: out.Task, From: out.From}
	}
}

func (m *Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.DeleteTaskUseCase().Execute(context.Background(), usecase.DeleteTaskInput{TaskID: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskDeleted{Task: out.Task}
	}
}

// suggestPriority asks the advisor without applying the result.
func (m *Model) suggestPriority(id string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.SuggestPriorityUseCase().Execute(context.Background(), usecase.SuggestPriorityInput{TaskID: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgSuggestion{Task: out.Task, Analysis: out.Analysis}
	}
}

// SelectedTask returns the focused task, or nil if the column is empty.
func (m *Model) SelectedTask() *domain.Task {
	if m.col < 0 || m.col >= len(m.columns) {
		return nil
	}
	tasks := m.columns[m.col].Tasks
	if m.row < 0 || m.row >= len(tasks) {
		return nil
	}
	return tasks[m.row]
}

// Mode returns the current UI mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// focusTask moves the cursor to the task with id if it is on the board.
func (m *Model) focusTask(id string) bool {
	for ci, col := range m.columns {
		for ri, t := range col.Tasks {
			if t.ID == id {
				m.col, m.row = ci, ri
				return true
			}
		}
	}
	return false
}

// clampCursor keeps the cursor inside the board.
func (m *Model) clampCursor() {
	if len(m.columns) == 0 {
		m.col, m.row = 0, 0
		return
	}
	m.col = min(max(m.col, 0), len(m.columns)-1)
	n := len(m.columns[m.col].Tasks)
	m.row = min(max(m.row, 0), max(n-1, 0))
}

func (m *Model) toggleBoard() {
	if m.board == domain.BoardScrum {
		m.board = domain.BoardKanban
	} else {
		m.board = domain.BoardScrum
	}
	m.col, m.row = 0, 0
}

func (m *Model) aiBusy() bool {
	return m.asking || (m.container.Advisor != nil && m.container.Advisor.Busy())
}

func cleanTitle(s string) string {
	return strings.TrimSpace(s)
}
