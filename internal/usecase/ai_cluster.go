package usecase

import (
	"context"
	"sort"

	"github.com/runoshun/taskflow/internal/advisory"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
)

// ClusterTasksInput contains the parameters for clustering.
type ClusterTasksInput struct {
	IncludeDone bool // Cluster completed tasks too
}

// TaskCluster is one category of tasks.
type TaskCluster struct {
	Name  string
	Tasks []*domain.Task
}

// ClusterTasksOutput contains the categories, sorted by name.
type ClusterTasksOutput struct {
	Insights string
	Clusters []TaskCluster
}

// ClusterTasks asks the advisor to group tasks into categories.
type ClusterTasks struct {
	tasks   *state.TaskStore
	advisor *advisory.Advisor
}

// NewClusterTasks creates a new ClusterTasks use case.
func NewClusterTasks(tasks *state.TaskStore, advisor *advisory.Advisor) *ClusterTasks {
	return &ClusterTasks{tasks: tasks, advisor: advisor}
}

// Execute requests the clustering and resolves indices to tasks.
func (uc *ClusterTasks) Execute(ctx context.Context, in ClusterTasksInput) (*ClusterTasksOutput, error) {
	var tasks []*domain.Task
	for _, t := range uc.tasks.List() {
		if in.IncludeDone || !t.IsDone() {
			tasks = append(tasks, t)
		}
	}

	clustering, err := uc.advisor.ClusterTasks(ctx, tasks)
	if err != nil {
		return nil, err
	}

	out := &ClusterTasksOutput{Insights: clustering.Insights}
	for name, idx := range clustering.Categories {
		c := TaskCluster{Name: name}
		for _, i := range idx {
			c.Tasks = append(c.Tasks, tasks[i])
		}
		out.Clusters = append(out.Clusters, c)
	}
	sort.Slice(out.Clusters, func(i, j int) bool { return out.Clusters[i].Name < out.Clusters[j].Name })
	return out, nil
}
