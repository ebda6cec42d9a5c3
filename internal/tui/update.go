package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
)

// Update handles messages and returns the updated model and command.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case MsgBoardLoaded:
		m.err = nil
		m.sprint = msg.Out.Sprint
		m.columns = msg.Out.Board.Columns
		m.progress = msg.Out.Progress
		if m.focusID != "" {
			m.focusTask(m.focusID)
			m.focusID = ""
		}
		m.clampCursor()
		return m, nil

	case MsgTaskCreated:
		m.status = fmt.Sprintf("Created %q", msg.Task.Title)
		if m.board == domain.BoardScrum {
			m.status += " in the backlog"
		}
		return m, m.loadBoard()

	case MsgTaskMoved:
		m.status = fmt.Sprintf("Moved %q: %s -> %s", msg.Task.Title, msg.From.Display(), msg.Task.Status.Display())
		m.focusID = msg.Task.ID
		return m, m.loadBoard()

	case MsgTaskDeleted:
		m.status = fmt.Sprintf("Deleted %q", msg.Task.Title)
		return m, m.loadBoard()

	case MsgSuggestion:
		m.asking = false
		m.status = fmt.Sprintf("AI: %s priority, about %gh. %s", msg.Analysis.Priority, msg.Analysis.EstimatedTime, msg.Analysis.Reasoning)
		return m, nil

	case MsgError:
		m.asking = false
		m.err = msg.Err
		if errors.Is(msg.Err, domain.ErrNoActiveSprint) {
			m.sprint = nil
			m.columns = nil
			m.clampCursor()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeInputTitle:
		return m.handleInputKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModeDetail, ModeHelp:
		if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) ||
			key.Matches(msg, m.keys.Detail) || key.Matches(msg, m.keys.Help) {
			m.mode = ModeNormal
		}
		return m, nil
	case ModeNormal:
		return m.handleNormalKey(msg)
	}
	return m, nil
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.row++
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.col++
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.mode = ModeInputTitle
		m.titleInput.Reset()
		return m, m.titleInput.Focus()

	case key.Matches(msg, m.keys.MoveNext):
		if t := m.SelectedTask(); t != nil {
			return m, m.moveTask(t.ID, usecase.MoveNext)
		}
		return m, nil

	case key.Matches(msg, m.keys.MovePrev):
		if t := m.SelectedTask(); t != nil {
			return m, m.moveTask(t.ID, usecase.MovePrev)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.SelectedTask() != nil {
			m.mode = ModeConfirm
		}
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if m.SelectedTask() != nil {
			m.mode = ModeDetail
		}
		return m, nil

	case key.Matches(msg, m.keys.SwitchBoard):
		m.toggleBoard()
		m.err = nil
		m.status = ""
		return m, m.loadBoard()

	case key.Matches(msg, m.keys.Suggest):
		t := m.SelectedTask()
		if t == nil {
			return m, nil
		}
		if !m.container.Advisor.Available() {
			m.err = domain.ErrAdvisorUnavailable
			return m, nil
		}
		if m.aiBusy() {
			return m, nil
		}
		m.asking = true
		m.status = fmt.Sprintf("Asking AI about %q...", t.Title)
		return m, m.suggestPriority(t.ID)

	case key.Matches(msg, m.keys.Refresh):
		m.err = nil
		return m, m.loadBoard()

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil
	}

	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.titleInput.Blur()
		return m, nil
	case tea.KeyEnter:
		title := cleanTitle(m.titleInput.Value())
		if title == "" {
			return m, nil
		}
		m.mode = ModeNormal
		m.titleInput.Blur()
		return m, m.createTask(title)
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Confirm) {
		m.mode = ModeNormal
		if t := m.SelectedTask(); t != nil {
			return m, m.deleteTask(t.ID)
		}
		return m, nil
	}
	m.mode = ModeNormal
	return m, nil
}
