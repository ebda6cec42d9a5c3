package advisory

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/view"
)

// Sampling temperatures per operation.
const (
	tempPriority = 0.3
	tempBulk     = 0.3
	tempSummary  = 0.8
	tempCluster  = 0.4
	tempPoints   = 0.2
	tempSprint   = 0.6
	tempPredict  = 0.3
)

const (
	systemPriority = "You are a task management AI that helps prioritize tasks. Always respond with valid JSON only."
	systemBulk     = "You are a task management AI. Always respond with valid JSON only."
	systemDaily    = "You are a helpful productivity assistant that generates motivating daily summaries."
	systemWeekly   = "You are a productivity analyst providing weekly insights."
	systemCluster  = "You are a task organization AI. Always respond with valid JSON only."
	systemPoints   = "You are a Scrum estimation expert. Respond with only a single Fibonacci number."
	systemSprint   = "You are a Scrum Master generating sprint retrospective summaries."
	systemPredict  = "You are a data analyst predicting sprint outcomes. Always respond with valid JSON only."
)

const noneLine = "None"

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func priorityPrompt(title, description string) string {
	return fmt.Sprintf(`Analyze this task and assign a priority (high, medium, or low) and estimate time to complete in hours.

Task: %s
Description: %s

Respond ONLY with a JSON object in this exact format:
{
  "priority": "high|medium|low",
  "estimatedTime": number (in hours),
  "reasoning": "brief explanation"
}`, title, orDefault(description, "No description"))
}

// Tasks are numbered from 0 so the numbers match the indices in the reply.
func numberedTasks(tasks []*domain.Task, fallback string) string {
	lines := make([]string, 0, len(tasks))
	for i, t := range tasks {
		lines = append(lines, fmt.Sprintf("%d. %s - %s", i, t.Title, orDefault(t.Description, fallback)))
	}
	return strings.Join(lines, "\n")
}

func bulkPrompt(tasks []*domain.Task) string {
	return fmt.Sprintf(`Analyze these tasks and assign priority (high, medium, low) and estimated time (in hours) for each.

Tasks:
%s

Respond ONLY with a JSON array in this exact format, one element per task, where "index" is the task number:
[
  {
    "index": 0,
    "priority": "high|medium|low",
    "estimatedTime": number,
    "reasoning": "brief explanation"
  }
]`, numberedTasks(tasks, "No description"))
}

func bulletList(tasks []*domain.Task, format func(*domain.Task) string) string {
	if len(tasks) == 0 {
		return noneLine
	}
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, "- "+format(t))
	}
	return strings.Join(lines, "\n")
}

func titleWithPriority(t *domain.Task) string {
	return fmt.Sprintf("%s (%s)", t.Title, orDefault(string(t.Priority), "no priority"))
}

func dailyPrompt(completedToday, pending []*domain.Task) string {
	shown := pending[:min(len(pending), 5)]
	return fmt.Sprintf(`Generate a brief daily summary based on these tasks.

Completed Today (%d):
%s

Pending Tasks (%d):
%s

Provide a motivating summary with:
1. Celebration of completed tasks
2. Key priorities for tomorrow
3. Brief productivity insight
4. Encouraging message

Keep it concise (3-4 sentences).`,
		len(completedToday), bulletList(completedToday, func(t *domain.Task) string { return t.Title }),
		len(pending), bulletList(shown, titleWithPriority))
}

func weeklyPrompt(completed []*domain.Task, active int) string {
	return fmt.Sprintf(`Generate a weekly productivity summary.

Tasks Completed This Week: %d
%s

Total Active Tasks: %d

Provide:
1. Weekly achievements summary
2. Productivity trends observed
3. Recommendations for next week
4. Motivational message

Keep it concise but insightful (4-5 sentences).`,
		len(completed), bulletList(completed, titleWithPriority), active)
}

func clusterPrompt(tasks []*domain.Task) string {
	return fmt.Sprintf(`Analyze these tasks and group them into logical categories.

Tasks:
%s

Respond ONLY with a JSON object grouping task numbers by category:
{
  "categories": {
    "Category Name 1": [0, 2, 5],
    "Category Name 2": [1, 3, 4]
  },
  "insights": "Brief insight about task distribution"
}`, numberedTasks(tasks, ""))
}

func pointsPrompt(title, description string) string {
	return fmt.Sprintf(`Based on this user story, estimate the complexity using Fibonacci story points (1, 2, 3, 5, 8, 13, 21).

Title: %s
Description: %s

Consider:
- Technical complexity
- Amount of work required
- Uncertainty/risk
- Dependencies

Respond with ONLY a single number from the Fibonacci sequence: 1, 2, 3, 5, 8, 13, or 21.`, title, description)
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func sprintPrompt(sp *domain.Sprint, tasks []*domain.Task, p view.Progress) string {
	var done []*domain.Task
	for _, t := range tasks {
		if t.IsDone() {
			done = append(done, t)
		}
	}
	return fmt.Sprintf(`Generate a sprint summary report.

Sprint: %s
Goal: %s
Duration: %s to %s

Metrics:
- Tasks: %d / %d completed
- Story Points: %d / %d completed
- Completion Rate: %d%%

Completed Tasks:
%s

Generate a concise 3-paragraph summary:
1. Sprint achievements and key metrics
2. What went well
3. Areas for improvement`,
		sp.Name, sp.Goal,
		sp.StartDate.Format(time.DateOnly), sp.EndDate.Format(time.DateOnly),
		p.CompletedTasks, p.TotalTasks,
		p.CompletedPoints, p.TotalPoints,
		percent(p.CompletedPoints, p.TotalPoints),
		bulletList(done, func(t *domain.Task) string { return fmt.Sprintf("%s (%d pts)", t.Title, t.StoryPoints) }))
}

func predictPrompt(p view.Progress) string {
	return fmt.Sprintf(`Predict sprint completion likelihood.

Sprint Progress:
- Completed: %d / %d story points (%d%%)
- Time: Day %d / %d (%d%%)

Based on this data, provide:
1. Completion likelihood (percentage)
2. Risk assessment (low, medium, high)
3. Recommended actions

Respond ONLY with JSON:
{
  "likelihood": number (0-100),
  "risk": "low|medium|high",
  "recommendation": "brief action to take"
}`,
		p.CompletedPoints, p.TotalPoints, percent(p.CompletedPoints, p.TotalPoints),
		p.ElapsedDays, p.TotalDays, percent(p.ElapsedDays, p.TotalDays))
}
