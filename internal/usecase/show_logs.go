package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/taskflow/internal/domain"
)

// ShowLogsInput contains the parameters for showing the log.
type ShowLogsInput struct {
	Entity string // Only entries tagged with this task or sprint ID (empty = all)
	Lines  int    // Number of lines to display from the end (0 = all)
}

// ShowLogsOutput contains the result of showing the log.
type ShowLogsOutput struct {
	LogPath string // Path to the log file
	Content string // Matching log lines
}

// ShowLogs is the use case for viewing the application log.
type ShowLogs struct {
	dataDir string
}

// NewShowLogs creates a new ShowLogs use case.
func NewShowLogs(dataDir string) *ShowLogs {
	return &ShowLogs{dataDir: dataDir}
}

// Execute reads the log file. A missing file yields empty content.
func (uc *ShowLogs) Execute(_ context.Context, in ShowLogsInput) (*ShowLogsOutput, error) {
	logPath := domain.LogPath(uc.dataDir)

	content, err := os.ReadFile(logPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ShowLogsOutput{LogPath: logPath}, nil
		}
		return nil, fmt.Errorf("read log file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if in.Entity != "" {
		tag := "] [" + in.Entity + "] ["
		kept := lines[:0]
		for _, line := range lines {
			if strings.Contains(line, tag) {
				kept = append(kept, line)
			}
		}
		lines = kept
	}
	if in.Lines > 0 && len(lines) > in.Lines {
		lines = lines[len(lines)-in.Lines:]
	}

	result := strings.Join(lines, "\n")
	if result != "" {
		result += "\n"
	}
	return &ShowLogsOutput{
		LogPath: logPath,
		Content: result,
	}, nil
}
