package obs

import (
	"time"

	"go.uber.org/zap"
)

// Time logs an operation's duration on completion, with the error when one
// occurred. Usage: defer obs.Time(logger, "cache.PutStatuses")(&err)
func Time(logger *zap.Logger, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			logger.Warn("operation failed",
				zap.String("op", name),
				zap.Duration("dur", dur),
				zap.Error(*errp))
			return
		}
		logger.Debug("operation complete",
			zap.String("op", name),
			zap.Duration("dur", dur))
	}
}
