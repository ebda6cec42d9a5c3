// Package advisory asks a chat-completion model for task suggestions and
// validates each reply against a declared response contract.
package advisory

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/view"
)

// DefaultStoryPoints is returned when the model's estimate is not a valid
// Fibonacci point value.
const DefaultStoryPoints = 3

// EstimatePoints is the scale accepted from the model.
var EstimatePoints = []int{1, 2, 3, 5, 8, 13, 21}

// Operation names used in *Error.
const (
	OpPriority = "priority"
	OpBulk     = "bulk-priority"
	OpDaily    = "daily-summary"
	OpWeekly   = "weekly-summary"
	OpSprint   = "sprint-summary"
	OpPoints   = "story-points"
	OpCluster  = "cluster"
	OpPredict  = "predict"
)

// PriorityAnalysis is the suggested priority and effort for one task.
type PriorityAnalysis struct {
	Priority      domain.Priority
	Reasoning     string
	EstimatedTime float64 // Hours
}

// BulkAnalysis is a PriorityAnalysis for the task at Index of the request.
type BulkAnalysis struct {
	PriorityAnalysis
	Index int
}

// Clustering groups task indices under category names.
type Clustering struct {
	Categories map[string][]int
	Insights   string
}

// Risk is a sprint completion risk level.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// IsValid returns true if the risk level is known.
func (r Risk) IsValid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// Prediction estimates whether a sprint will be completed.
type Prediction struct {
	Risk           Risk
	Recommendation string
	Likelihood     float64 // Percent, 0-100
}

// Wire shapes. Pointer fields are required.
type (
	priorityReply struct {
		Priority      domain.Priority `json:"priority"`
		EstimatedTime *float64        `json:"estimatedTime"`
		Reasoning     string          `json:"reasoning"`
	}
	bulkReply struct {
		Index *int `json:"index"`
		priorityReply
	}
	clusterReply struct {
		Categories map[string][]int `json:"categories"`
		Insights   string           `json:"insights"`
	}
	predictReply struct {
		Likelihood     *float64 `json:"likelihood"`
		Risk           Risk     `json:"risk"`
		Recommendation string   `json:"recommendation"`
	}
)

// Advisor runs advisory operations. It keeps no state between calls other
// than the count of requests in flight.
type Advisor struct {
	chat     domain.ChatCompleter
	clock    domain.Clock
	logger   domain.Logger
	inflight atomic.Int32
}

// New creates an Advisor. A nil chat makes every operation fail with
// domain.ErrAdvisorUnavailable.
func New(chat domain.ChatCompleter, clock domain.Clock, logger domain.Logger) *Advisor {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Advisor{chat: chat, clock: clock, logger: logger}
}

// Available reports whether a chat endpoint is configured.
func (a *Advisor) Available() bool {
	return a.chat != nil
}

// Busy reports whether any request is outstanding.
func (a *Advisor) Busy() bool {
	return a.inflight.Load() > 0
}

func (a *Advisor) ask(ctx context.Context, op string, temperature float64, system, user string) (string, error) {
	if a.chat == nil {
		return "", &Error{Op: op, Err: domain.ErrAdvisorUnavailable}
	}
	a.inflight.Add(1)
	defer a.inflight.Add(-1)

	start := a.clock.Now()
	reply, err := a.chat.Complete(ctx, domain.ChatRequest{
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: system},
			{Role: domain.RoleUser, Content: user},
		},
		Temperature: temperature,
	})
	if err != nil {
		a.logger.Warn("", "ai", fmt.Sprintf("%s failed: %v", op, err))
		return "", &Error{Op: op, Err: err}
	}
	a.logger.Debug("", "ai", fmt.Sprintf("%s replied in %s", op, a.clock.Now().Sub(start)))
	return reply, nil
}

func (a *Advisor) fail(op string, err error) error {
	a.logger.Warn("", "ai", fmt.Sprintf("%s: %v", op, err))
	return &Error{Op: op, Err: err}
}

func (r priorityReply) validate(reply string) (PriorityAnalysis, error) {
	if !r.Priority.IsValid() {
		return PriorityAnalysis{}, &FormatError{Reason: fmt.Sprintf("invalid priority %q", r.Priority), Reply: reply}
	}
	if r.EstimatedTime == nil {
		return PriorityAnalysis{}, &FormatError{Reason: "missing estimatedTime", Reply: reply}
	}
	if *r.EstimatedTime < 0 {
		return PriorityAnalysis{}, &FormatError{Reason: "negative estimatedTime", Reply: reply}
	}
	return PriorityAnalysis{Priority: r.Priority, EstimatedTime: *r.EstimatedTime, Reasoning: r.Reasoning}, nil
}

// AnalyzeTaskPriority suggests a priority and an hour estimate for a task.
func (a *Advisor) AnalyzeTaskPriority(ctx context.Context, title, description string) (*PriorityAnalysis, error) {
	reply, err := a.ask(ctx, OpPriority, tempPriority, systemPriority, priorityPrompt(title, description))
	if err != nil {
		return nil, err
	}
	var r priorityReply
	if err := decodeStrict(reply, '{', &r); err != nil {
		return nil, a.fail(OpPriority, err)
	}
	out, err := r.validate(reply)
	if err != nil {
		return nil, a.fail(OpPriority, err)
	}
	return &out, nil
}

// AnalyzeBulkTasks suggests a priority and an hour estimate for each task.
// Every index in the reply refers to a position in tasks.
func (a *Advisor) AnalyzeBulkTasks(ctx context.Context, tasks []*domain.Task) ([]BulkAnalysis, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	reply, err := a.ask(ctx, OpBulk, tempBulk, systemBulk, bulkPrompt(tasks))
	if err != nil {
		return nil, err
	}
	var rs []bulkReply
	if err := decodeStrict(reply, '[', &rs); err != nil {
		return nil, a.fail(OpBulk, err)
	}
	out := make([]BulkAnalysis, 0, len(rs))
	for _, r := range rs {
		if r.Index == nil || *r.Index < 0 || *r.Index >= len(tasks) {
			return nil, a.fail(OpBulk, &FormatError{Reason: "missing or out-of-range index", Reply: reply})
		}
		pa, err := r.validate(reply)
		if err != nil {
			return nil, a.fail(OpBulk, err)
		}
		out = append(out, BulkAnalysis{Index: *r.Index, PriorityAnalysis: pa})
	}
	return out, nil
}

// DailySummary writes a short summary of today's work. Tasks count as
// completed today if they are done and were last updated today.
func (a *Advisor) DailySummary(ctx context.Context, tasks []*domain.Task) (string, error) {
	now := a.clock.Now()
	y, m, d := now.Date()
	var completed, pending []*domain.Task
	for _, t := range tasks {
		if !t.IsDone() {
			pending = append(pending, t)
			continue
		}
		if t.UpdatedAt != nil {
			uy, um, ud := t.UpdatedAt.In(now.Location()).Date()
			if uy == y && um == m && ud == d {
				completed = append(completed, t)
			}
		}
	}
	return a.ask(ctx, OpDaily, tempSummary, systemDaily, dailyPrompt(completed, pending))
}

// WeeklySummary writes a summary of the tasks completed in the last 7 days.
func (a *Advisor) WeeklySummary(ctx context.Context, tasks []*domain.Task) (string, error) {
	weekAgo := a.clock.Now().AddDate(0, 0, -7)
	var completed []*domain.Task
	active := 0
	for _, t := range tasks {
		if !t.IsDone() {
			active++
			continue
		}
		if t.UpdatedAt != nil && !t.UpdatedAt.Before(weekAgo) {
			completed = append(completed, t)
		}
	}
	return a.ask(ctx, OpWeekly, tempSummary, systemWeekly, weeklyPrompt(completed, active))
}

// SprintSummary writes a retrospective summary of sp from the tasks
// referencing it.
func (a *Advisor) SprintSummary(ctx context.Context, sp *domain.Sprint, tasks []*domain.Task) (string, error) {
	var sprintTasks []*domain.Task
	for _, t := range tasks {
		if t.InSprint(sp.ID) {
			sprintTasks = append(sprintTasks, t)
		}
	}
	p := view.SprintProgress(sprintTasks, sp, a.clock.Now())
	return a.ask(ctx, OpSprint, tempSprint, systemSprint, sprintPrompt(sp, sprintTasks, p))
}

// EstimateStoryPoints asks for a Fibonacci estimate. Replies that are not a
// member of EstimatePoints yield DefaultStoryPoints; transport failures are
// still returned as errors.
func (a *Advisor) EstimateStoryPoints(ctx context.Context, title, description string) (int, error) {
	reply, err := a.ask(ctx, OpPoints, tempPoints, systemPoints, pointsPrompt(title, description))
	if err != nil {
		return 0, err
	}
	n, ok := leadingInt(reply)
	if !ok || !slices.Contains(EstimatePoints, n) {
		a.logger.Info("", "ai", fmt.Sprintf("story point reply %q not on the scale; using %d", reply, DefaultStoryPoints))
		return DefaultStoryPoints, nil
	}
	return n, nil
}

// ClusterTasks groups tasks into categories by index.
func (a *Advisor) ClusterTasks(ctx context.Context, tasks []*domain.Task) (*Clustering, error) {
	if len(tasks) == 0 {
		return &Clustering{Categories: map[string][]int{}}, nil
	}
	reply, err := a.ask(ctx, OpCluster, tempCluster, systemCluster, clusterPrompt(tasks))
	if err != nil {
		return nil, err
	}
	var r clusterReply
	if err := decodeStrict(reply, '{', &r); err != nil {
		return nil, a.fail(OpCluster, err)
	}
	if r.Categories == nil {
		return nil, a.fail(OpCluster, &FormatError{Reason: "missing categories", Reply: reply})
	}
	for name, idx := range r.Categories {
		for _, i := range idx {
			if i < 0 || i >= len(tasks) {
				return nil, a.fail(OpCluster, &FormatError{Reason: fmt.Sprintf("category %q: index %d out of range", name, i), Reply: reply})
			}
		}
	}
	return &Clustering{Categories: r.Categories, Insights: r.Insights}, nil
}

// PredictSprintCompletion estimates the likelihood that sp finishes on time.
func (a *Advisor) PredictSprintCompletion(ctx context.Context, sp *domain.Sprint, tasks []*domain.Task) (*Prediction, error) {
	p := view.SprintProgress(tasks, sp, a.clock.Now())
	reply, err := a.ask(ctx, OpPredict, tempPredict, systemPredict, predictPrompt(p))
	if err != nil {
		return nil, err
	}
	var r predictReply
	if err := decodeStrict(reply, '{', &r); err != nil {
		return nil, a.fail(OpPredict, err)
	}
	switch {
	case r.Likelihood == nil:
		return nil, a.fail(OpPredict, &FormatError{Reason: "missing likelihood", Reply: reply})
	case *r.Likelihood < 0 || *r.Likelihood > 100:
		return nil, a.fail(OpPredict, &FormatError{Reason: fmt.Sprintf("likelihood %v outside 0-100", *r.Likelihood), Reply: reply})
	case !r.Risk.IsValid():
		return nil, a.fail(OpPredict, &FormatError{Reason: fmt.Sprintf("invalid risk %q", r.Risk), Reply: reply})
	}
	return &Prediction{Likelihood: *r.Likelihood, Risk: r.Risk, Recommendation: r.Recommendation}, nil
}
