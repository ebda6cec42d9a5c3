package tui

import (
	"github.com/runoshun/taskflow/internal/advisory"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
)

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgBoardLoaded is sent when the board has been rebuilt.
type MsgBoardLoaded struct {
	Out *usecase.ShowBoardOutput
}

func (MsgBoardLoaded) sealed() {}

// MsgTaskCreated is sent when a new task is created.
type MsgTaskCreated struct {
	Task *domain.Task
}

func (MsgTaskCreated) sealed() {}

// MsgTaskMoved is sent when a task changes column.
type MsgTaskMoved struct {
	Task *domain.Task
	From domain.Status
}

func (MsgTaskMoved) sealed() {}

// MsgTaskDeleted is sent when a task is deleted.
type MsgTaskDeleted struct {
	Task *domain.Task
}

func (MsgTaskDeleted) sealed() {}

// MsgSuggestion is sent when the advisor has analysed a task.
type MsgSuggestion struct {
	Task     *domain.Task
	Analysis *advisory.PriorityAnalysis
}

func (MsgSuggestion) sealed() {}

// MsgError is sent when an operation fails.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
