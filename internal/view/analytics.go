package view

import (
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// DayCount is the number of tasks completed on one calendar day.
type DayCount struct {
	Date  string // YYYY-MM-DD
	Count int
}

// SprintStat aggregates the tasks referencing one sprint.
type SprintStat struct {
	SprintID        string
	Name            string
	Tasks           int
	StoryPoints     int
	CompletedPoints int
}

// VelocityPoint is the recorded velocity of a completed sprint.
type VelocityPoint struct {
	SprintID string
	Name     string
	Velocity int
	Capacity int
}

// Analytics holds dashboard aggregates.
// Fields are ordered to minimize memory padding.
type Analytics struct {
	ByPriority      map[domain.Priority]int
	ByStatus        map[domain.Status]int
	HoursByPriority map[domain.Priority]float64
	BySprint        []SprintStat
	Trend           []DayCount
	Velocity        []VelocityPoint
	Total           int
	Completed       int
	Overdue         int
}

// CompletionRate returns the share of done tasks in percent.
func (a Analytics) CompletionRate() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Completed) / float64(a.Total) * 100
}

// AverageVelocity returns the mean velocity of completed sprints.
func (a Analytics) AverageVelocity() float64 {
	if len(a.Velocity) == 0 {
		return 0
	}
	sum := 0
	for _, v := range a.Velocity {
		sum += v.Velocity
	}
	return float64(sum) / float64(len(a.Velocity))
}

// ComputeAnalytics aggregates tasks, current sprints and sprint history.
// trendDays is the width of the completion trend window ending today, in
// now's location.
func ComputeAnalytics(tasks []*domain.Task, sprints, history []*domain.Sprint, now time.Time, trendDays int) Analytics {
	a := Analytics{
		ByPriority:      make(map[domain.Priority]int),
		ByStatus:        make(map[domain.Status]int),
		HoursByPriority: make(map[domain.Priority]float64),
		Total:           len(tasks),
	}
	for _, p := range domain.AllPriorities() {
		a.ByPriority[p] = 0
		a.HoursByPriority[p] = 0
	}
	for _, s := range domain.AllStatuses() {
		a.ByStatus[s] = 0
	}

	allSprints := append(append([]*domain.Sprint{}, sprints...), history...)
	statIdx := make(map[string]int, len(allSprints))
	for _, sp := range allSprints {
		statIdx[sp.ID] = len(a.BySprint)
		a.BySprint = append(a.BySprint, SprintStat{SprintID: sp.ID, Name: sp.Name})
	}

	for _, t := range tasks {
		a.ByPriority[t.Priority]++
		a.ByStatus[t.Status]++
		a.HoursByPriority[t.Priority] += t.EstimatedHours()
		if t.IsDone() {
			a.Completed++
		}
		if Overdue(t, now) {
			a.Overdue++
		}
		if !t.IsScrum() {
			continue
		}
		if i, ok := statIdx[t.SprintRef()]; ok {
			st := &a.BySprint[i]
			st.Tasks++
			st.StoryPoints += t.StoryPoints
			if t.IsDone() {
				st.CompletedPoints += t.StoryPoints
			}
		}
	}

	a.Trend = CompletionTrend(tasks, now, trendDays)

	for _, sp := range history {
		a.Velocity = append(a.Velocity, VelocityPoint{
			SprintID: sp.ID,
			Name:     sp.Name,
			Velocity: sp.Velocity,
			Capacity: sp.Capacity,
		})
	}
	return a
}

// CompletionTrend counts completed tasks per day for the last days days,
// oldest first, keyed by completion date.
func CompletionTrend(tasks []*domain.Task, now time.Time, days int) []DayCount {
	if days <= 0 {
		return nil
	}
	loc := now.Location()
	trend := make([]DayCount, days)
	index := make(map[string]int, days)
	for i := range days {
		d := now.AddDate(0, 0, i-days+1).Format(time.DateOnly)
		trend[i].Date = d
		index[d] = i
	}
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		if i, ok := index[t.CompletedAt.In(loc).Format(time.DateOnly)]; ok {
			trend[i].Count++
		}
	}
	return trend
}

// Progress summarises a sprint's tasks and calendar.
type Progress struct {
	TotalTasks      int
	CompletedTasks  int
	TotalPoints     int
	CompletedPoints int
	ElapsedDays     int
	TotalDays       int
}

// CompletionRate returns the share of completed story points in percent.
func (p Progress) CompletionRate() float64 {
	if p.TotalPoints == 0 {
		return 0
	}
	return float64(p.CompletedPoints) / float64(p.TotalPoints) * 100
}

// RemainingDays returns the days left, never negative.
func (p Progress) RemainingDays() int {
	return max(p.TotalDays-p.ElapsedDays, 0)
}

// SprintProgress computes progress for sp from the tasks referencing it.
func SprintProgress(tasks []*domain.Task, sp *domain.Sprint, now time.Time) Progress {
	p := Progress{
		ElapsedDays: sp.ElapsedDays(now),
		TotalDays:   sp.TotalDays(),
	}
	for _, t := range tasks {
		if !t.InSprint(sp.ID) {
			continue
		}
		p.TotalTasks++
		p.TotalPoints += t.StoryPoints
		if t.IsDone() {
			p.CompletedTasks++
			p.CompletedPoints += t.StoryPoints
		}
	}
	return p
}
