package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// storedTask is the on-disk shape of a task written by any earlier version.
// The shadowing fields are pointers or raw values so absent keys can be told
// apart from zero values and loosely typed values can be normalized.
type storedTask struct {
	domain.Task
	CreatedAt          looseTime         `json:"createdAt"`
	DueDate            looseTime         `json:"dueDate"`
	UpdatedAt          looseTime         `json:"updatedAt"`
	CompletedAt        looseTime         `json:"completedAt"`
	EstimatedTime      looseString       `json:"estimatedTime"`
	StoryPoints        *int              `json:"storyPoints"`
	AcceptanceCriteria *[]string         `json:"acceptanceCriteria"`
	BoardType          *domain.BoardType `json:"boardType"`
	SprintID           json.RawMessage   `json:"sprintId"`
}

// looseTime decodes a timestamp written as RFC 3339, a bare date
// (YYYY-MM-DD), an empty string or null. Empty and null mean "no time".
type looseTime struct {
	t          *time.Time
	normalized bool // the stored form differs from what will be written back
}

func (lt *looseTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time value %s: %w", data, err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		lt.normalized = true
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		lt.t = &t
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("time value %q: not RFC 3339 or YYYY-MM-DD", s)
	}
	lt.t = &t
	lt.normalized = true
	return nil
}

// looseString decodes a string that may have been written as a JSON number.
type looseString struct {
	s          string
	normalized bool
}

func (ls *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &ls.s)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("value %s: want string or number", data)
	}
	ls.s = strconv.FormatFloat(f, 'f', -1, 64)
	ls.normalized = true
	return nil
}

// migrateTask decodes one stored record and fills the fields older records
// lack with their defaults: sprintId null, storyPoints 0, acceptanceCriteria []
// and boardType kanban. Numeric estimates become strings and empty or
// date-only timestamps are normalized.
// changed reports whether the record differs from what will be written back.
func migrateTask(raw json.RawMessage) (task *domain.Task, changed bool, err error) {
	var st storedTask
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false, err
	}
	t := st.Task

	if st.CreatedAt.t != nil {
		t.CreatedAt = *st.CreatedAt.t
	}
	t.DueDate = st.DueDate.t
	t.UpdatedAt = st.UpdatedAt.t
	t.CompletedAt = st.CompletedAt.t
	t.EstimatedTime = st.EstimatedTime.s
	for _, n := range []bool{
		st.CreatedAt.normalized, st.DueDate.normalized, st.UpdatedAt.normalized,
		st.CompletedAt.normalized, st.EstimatedTime.normalized,
	} {
		changed = changed || n
	}

	switch {
	case st.SprintID == nil:
		t.SprintID = nil
		changed = true
	case string(st.SprintID) == "null":
		t.SprintID = nil
	default:
		var ref string
		if err := json.Unmarshal(st.SprintID, &ref); err != nil {
			return nil, false, fmt.Errorf("sprintId: %w", err)
		}
		if ref == "" {
			t.SprintID = nil
			changed = true
		} else {
			t.SprintID = &ref
		}
	}

	if st.StoryPoints == nil {
		t.StoryPoints = 0
		changed = true
	} else {
		t.StoryPoints = *st.StoryPoints
	}

	if st.AcceptanceCriteria == nil || *st.AcceptanceCriteria == nil {
		t.AcceptanceCriteria = []string{}
		changed = true
	} else {
		t.AcceptanceCriteria = *st.AcceptanceCriteria
	}

	if st.BoardType == nil || *st.BoardType == "" {
		t.BoardType = domain.BoardKanban
		changed = true
	} else {
		t.BoardType = *st.BoardType
	}

	return &t, changed, nil
}

// migrateTasks applies migrateTask to every record. Records that cannot be
// decoded are logged and returned in rejected instead of failing the batch.
func migrateTasks(records []json.RawMessage, logger domain.Logger) (tasks []*domain.Task, migrated int, rejected []json.RawMessage) {
	tasks = make([]*domain.Task, 0, len(records))
	for i, rec := range records {
		t, changed, err := migrateTask(rec)
		if err != nil {
			logger.Warn(recordID(rec), "migrate", fmt.Sprintf("skipping unreadable task record %d: %v", i, err))
			rejected = append(rejected, rec)
			continue
		}
		if changed {
			migrated++
		}
		tasks = append(tasks, t)
	}
	return tasks, migrated, rejected
}

// recordID extracts the id of a record for logging, if it has a string one.
func recordID(rec json.RawMessage) string {
	var head struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(rec, &head)
	return head.ID
}

// storedSprint is the on-disk shape of a sprint. Dates picked in a date
// field were stored as bare YYYY-MM-DD strings.
type storedSprint struct {
	domain.Sprint
	StartDate looseTime `json:"startDate"`
	EndDate   looseTime `json:"endDate"`
	CreatedAt looseTime `json:"createdAt"`
}

// migrateSprint decodes one stored sprint record, normalizing its dates.
func migrateSprint(raw json.RawMessage) (sprint *domain.Sprint, changed bool, err error) {
	var st storedSprint
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false, err
	}
	sp := st.Sprint
	for _, f := range []struct {
		dst *time.Time
		src looseTime
	}{
		{&sp.StartDate, st.StartDate},
		{&sp.EndDate, st.EndDate},
		{&sp.CreatedAt, st.CreatedAt},
	} {
		if f.src.t != nil {
			*f.dst = *f.src.t
		}
		changed = changed || f.src.normalized
	}
	if sp.Tasks == nil {
		sp.Tasks = []string{}
	}
	return &sp, changed, nil
}
