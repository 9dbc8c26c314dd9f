package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// collaboratorAttempts is the whole budget for a collaborator call: one try plus one retry.
const collaboratorAttempts = 2

// withTransientRetry runs call again once when it fails transiently. Any other
// failure, and the second transient one, is returned as is.
func withTransientRetry[T any](ctx context.Context, operation string, call func() (T, error)) (T, error) {
	for attempt := 1; ; attempt++ {
		result, err := call()
		if err == nil {
			return result, nil
		}
		_, class := entities.ClassOf(err)
		if class != entities.ErrorClassTransient || attempt >= collaboratorAttempts || ctx.Err() != nil {
			return result, err
		}
		logger.Warnf("[retry] transient failure %s (attempt %d/%d): %v", operation, attempt, collaboratorAttempts, err)
	}
}
