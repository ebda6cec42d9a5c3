package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrAmbiguousID         = errors.New("id prefix matches more than one record")
	ErrSprintNotFound      = errors.New("sprint not found")
	ErrDuplicateTaskID     = errors.New("task id already exists")
	ErrInvalidTransition   = errors.New("invalid sprint status transition")
	ErrSprintCompleted     = errors.New("sprint already completed")
	ErrNotScrumTask        = errors.New("task is not on the scrum board")
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrEmptyName           = errors.New("sprint name cannot be empty")
	ErrInvalidDates        = errors.New("sprint end date is before start date")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidBoardType    = errors.New("invalid board type")
	ErrInvalidStoryPoints  = errors.New("story points must be one of 0, 1, 2, 3, 5, 8, 13, 21")
	ErrStatusNotOnBoard    = errors.New("status is not available on this board")
	ErrNoActiveSprint      = errors.New("no active sprint")
	ErrNotInitialized      = errors.New("taskflow not initialized (run 'taskflow init' first)")
	ErrAlreadyInitialized  = errors.New("taskflow already initialized")
	ErrConfigExists        = errors.New("config file already exists")
	ErrAdvisorUnavailable  = errors.New("AI advisor not configured (set OPENROUTER_API_KEY or GROQ_API_KEY)")
	ErrUnknownStoreBackend = errors.New("unknown storage backend")
	ErrMigrationConflict   = errors.New("destination already holds different data")
	ErrInvalidSnapshot     = errors.New("invalid snapshot")
)
