// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/runoshun/taskflow/internal/advisory"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/infra/config"
	"github.com/runoshun/taskflow/internal/infra/ids"
	"github.com/runoshun/taskflow/internal/infra/jsonstore"
	"github.com/runoshun/taskflow/internal/infra/llm"
	"github.com/runoshun/taskflow/internal/infra/logging"
	"github.com/runoshun/taskflow/internal/infra/redisstore"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/usecase"
)

// EnvDataDir overrides the data directory location.
const EnvDataDir = "TASKFLOW_DIR"

const dialTimeout = 5 * time.Second

// Config holds the application paths.
type Config struct {
	DataDir   string // Path to the .taskflow directory
	StorePath string // Path to store.json
	LogPath   string // Path to the log file
}

// newConfig resolves the data directory for the working directory dir.
func newConfig(dir string, getenv func(string) string) Config {
	dataDir := getenv(EnvDataDir)
	if dataDir == "" {
		dataDir = domain.ProjectDir(dir)
	}
	return Config{
		DataDir:   dataDir,
		StorePath: domain.StorePath(dataDir),
		LogPath:   domain.LogPath(dataDir),
	}
}

// Backend is a key-value store that can also initialize itself.
type Backend interface {
	domain.KVStore
	domain.StoreInitializer
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	KV               domain.KVStore
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	IDs              domain.IDGenerator
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	Logger           domain.Logger

	// State and services
	Tasks     *state.TaskStore
	Sprints   *state.SprintStore
	Advisor   *advisory.Advisor
	AppConfig *domain.Config

	closers []io.Closer

	// Configuration
	Config Config
}

// New creates a new Container for the project rooted at dir.
// State is not read until Load is called so that init can run on an empty
// directory.
func New(dir string) (*Container, error) {
	cfg := newConfig(dir, os.Getenv)

	configLoader := config.NewLoader(cfg.DataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		appConfig = domain.NewDefaultConfig()
		appConfig.Warnings = append(appConfig.Warnings, err.Error())
	}

	logger := logging.New(cfg.DataDir, logging.ParseLevel(appConfig.Log.Level))
	for _, w := range appConfig.Warnings {
		logger.Warn("", "config", w)
	}

	c := &Container{
		Clock:         domain.RealClock{},
		IDs:           ids.UUID{},
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(cfg.DataDir),
		Logger:        logger,
		AppConfig:     appConfig,
		Config:        cfg,
		closers:       []io.Closer{logger},
	}

	backend, err := c.OpenBackend(appConfig.Storage.Backend)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.KV = backend
	c.StoreInitializer = backend

	c.Tasks = state.NewTaskStore(backend, c.Clock, logger)
	c.Sprints = state.NewSprintStore(backend, c.Clock, c.IDs, logger)
	c.Advisor = advisory.New(newChat(appConfig.AI, logger), c.Clock, logger)
	return c, nil
}

// newChat returns the chat endpoint for cfg, or nil when no provider has a key.
func newChat(cfg domain.AIConfig, logger domain.Logger) domain.ChatCompleter {
	provider, key, err := llm.ResolveProvider(cfg, os.Getenv)
	if err != nil {
		logger.Debug("", "ai", fmt.Sprintf("advisor disabled: %v", err))
		return nil
	}
	client := llm.New(provider, key, cfg)
	logger.Debug("", "ai", fmt.Sprintf("using %s with model %s", client.Provider(), client.Model()))
	return client
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, backend Backend, clock domain.Clock, idGen domain.IDGenerator, chat domain.ChatCompleter, logger domain.Logger) *Container {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Container{
		KV:               backend,
		StoreInitializer: backend,
		Clock:            clock,
		IDs:              idGen,
		Logger:           logger,
		Tasks:            state.NewTaskStore(backend, clock, logger),
		Sprints:          state.NewSprintStore(backend, clock, idGen, logger),
		Advisor:          advisory.New(chat, clock, logger),
		AppConfig:        domain.NewDefaultConfig(),
		Config:           cfg,
	}
}

// OpenBackend opens the named storage backend ("json" or "redis").
// Redis connections are closed by Close.
func (c *Container) OpenBackend(name string) (Backend, error) {
	switch name {
	case "", domain.DefaultStoreBackend:
		return jsonstore.New(c.Config.StorePath), nil
	case "redis":
		if c.AppConfig.Storage.RedisAddr == "" {
			return nil, fmt.Errorf("%w: redis backend needs storage.redis_addr", domain.ErrUnknownStoreBackend)
		}
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()
		store, err := redisstore.Dial(ctx, c.AppConfig.Storage.RedisAddr, c.AppConfig.Storage.RedisDB, c.AppConfig.Storage.Namespace)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, store)
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreBackend, name)
	}
}

// Load reads tasks and sprints from the store.
func (c *Container) Load() error {
	migrated, err := c.Tasks.Load()
	if err != nil {
		return err
	}
	if migrated > 0 {
		c.Logger.Info("", "store", fmt.Sprintf("migrated %d task record(s)", migrated))
	}
	return c.Sprints.Load()
}

// Close releases the log file and any backend connections.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// defaultBoard returns the board new tasks land on.
func (c *Container) defaultBoard() domain.BoardType {
	if c.AppConfig.Board.Default.IsValid() {
		return c.AppConfig.Board.Default
	}
	return domain.BoardKanban
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// ShowLogsUseCase returns a new ShowLogs use case.
func (c *Container) ShowLogsUseCase() *usecase.ShowLogs {
	return usecase.NewShowLogs(c.Config.DataDir)
}

// MigrateStoreUseCase returns a new MigrateStore use case copying the current
// backend into dest.
func (c *Container) MigrateStoreUseCase(dest Backend) *usecase.MigrateStore {
	return usecase.NewMigrateStore(c.KV, dest, dest)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Tasks, c.IDs, c.defaultBoard())
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks, c.Sprints)
}

// MoveTaskUseCase returns a new MoveTask use case.
func (c *Container) MoveTaskUseCase() *usecase.MoveTask {
	return usecase.NewMoveTask(c.Tasks)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Sprints)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks, c.Sprints, c.Clock)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// UpdateCriteriaUseCase returns a new UpdateCriteria use case.
func (c *Container) UpdateCriteriaUseCase() *usecase.UpdateCriteria {
	return usecase.NewUpdateCriteria(c.Tasks)
}

// CreateSprintUseCase returns a new CreateSprint use case.
func (c *Container) CreateSprintUseCase() *usecase.CreateSprint {
	return usecase.NewCreateSprint(c.Sprints, c.Clock)
}

// EditSprintUseCase returns a new EditSprint use case.
func (c *Container) EditSprintUseCase() *usecase.EditSprint {
	return usecase.NewEditSprint(c.Sprints)
}

// StartSprintUseCase returns a new StartSprint use case.
func (c *Container) StartSprintUseCase() *usecase.StartSprint {
	return usecase.NewStartSprint(c.Sprints)
}

// CompleteSprintUseCase returns a new CompleteSprint use case.
func (c *Container) CompleteSprintUseCase() *usecase.CompleteSprint {
	return usecase.NewCompleteSprint(c.Tasks, c.Sprints, c.Clock)
}

// DeleteSprintUseCase returns a new DeleteSprint use case.
func (c *Container) DeleteSprintUseCase() *usecase.DeleteSprint {
	return usecase.NewDeleteSprint(c.Tasks, c.Sprints)
}

// ListSprintsUseCase returns a new ListSprints use case.
func (c *Container) ListSprintsUseCase() *usecase.ListSprints {
	return usecase.NewListSprints(c.Tasks, c.Sprints, c.Clock)
}

// PlanTaskUseCase returns a new PlanTask use case.
func (c *Container) PlanTaskUseCase() *usecase.PlanTask {
	return usecase.NewPlanTask(c.Tasks, c.Sprints)
}

// UnplanTaskUseCase returns a new UnplanTask use case.
func (c *Container) UnplanTaskUseCase() *usecase.UnplanTask {
	return usecase.NewUnplanTask(c.Tasks, c.Sprints)
}

// ShowBoardUseCase returns a new ShowBoard use case.
func (c *Container) ShowBoardUseCase() *usecase.ShowBoard {
	return usecase.NewShowBoard(c.Tasks, c.Sprints, c.Clock, c.defaultBoard())
}

// ShowBacklogUseCase returns a new ShowBacklog use case.
func (c *Container) ShowBacklogUseCase() *usecase.ShowBacklog {
	return usecase.NewShowBacklog(c.Tasks, c.Sprints)
}

// ShowStatsUseCase returns a new ShowStats use case.
func (c *Container) ShowStatsUseCase() *usecase.ShowStats {
	return usecase.NewShowStats(c.Tasks, c.Sprints, c.Clock, c.AppConfig.Analytics.TrendDays)
}

// SuggestPriorityUseCase returns a new SuggestPriority use case.
func (c *Container) SuggestPriorityUseCase() *usecase.SuggestPriority {
	return usecase.NewSuggestPriority(c.Tasks, c.Advisor)
}

// PrioritizeAllUseCase returns a new PrioritizeAll use case.
func (c *Container) PrioritizeAllUseCase() *usecase.PrioritizeAll {
	return usecase.NewPrioritizeAll(c.Tasks, c.Advisor)
}

// EstimatePointsUseCase returns a new EstimatePoints use case.
func (c *Container) EstimatePointsUseCase() *usecase.EstimatePoints {
	return usecase.NewEstimatePoints(c.Tasks, c.Advisor)
}

// ClusterTasksUseCase returns a new ClusterTasks use case.
func (c *Container) ClusterTasksUseCase() *usecase.ClusterTasks {
	return usecase.NewClusterTasks(c.Tasks, c.Advisor)
}

// SummarizeUseCase returns a new Summarize use case.
func (c *Container) SummarizeUseCase() *usecase.Summarize {
	return usecase.NewSummarize(c.Tasks, c.Sprints, c.Advisor)
}

// PredictSprintUseCase returns a new PredictSprint use case.
func (c *Container) PredictSprintUseCase() *usecase.PredictSprint {
	return usecase.NewPredictSprint(c.Tasks, c.Sprints, c.Advisor, c.Clock)
}

// ExportStateUseCase returns a new ExportState use case.
func (c *Container) ExportStateUseCase() *usecase.ExportState {
	return usecase.NewExportState(c.Tasks, c.Sprints, c.Clock)
}

// ImportStateUseCase returns a new ImportState use case.
func (c *Container) ImportStateUseCase() *usecase.ImportState {
	return usecase.NewImportState(c.Tasks, c.Sprints)
}
