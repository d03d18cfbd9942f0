package cli

import (
	"fmt"
	"strings"

	"taskdeck/internal/model"
)

type unknownStatusError struct {
	status string
}

func (e unknownStatusError) Error() string {
	return fmt.Sprintf("unknown task status: %s (want queued|claimed|running|succeeded|failed)", e.status)
}

// normalizeTaskStatus validates a --status flag value before any network call.
func normalizeTaskStatus(s string) (model.TaskStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch model.TaskStatus(s) {
	case "", model.TaskQueued, model.TaskClaimed, model.TaskRunning, model.TaskSucceeded, model.TaskFailed:
		return model.TaskStatus(s), nil
	default:
		return "", unknownStatusError{status: s}
	}
}
