package interceptors

import (
	"time"

	"go.uber.org/zap"

	"github.com/paullo612/di"
)

// Logging logs each invocation with its duration.
// Successful calls are logged at debug level, failures at warn level.
func Logging(logger *zap.Logger) di.Interceptor {
	return di.InterceptorFunc(func(inv *di.Invocation) (interface{}, error) {
		start := time.Now()
		res, err := inv.Proceed()

		fields := []zap.Field{
			zap.Stringer("component", inv.Component()),
			zap.String("method", inv.Method()),
			zap.Duration("duration", time.Since(start)),
		}

		if err != nil {
			logger.Warn("invocation failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("invocation", fields...)
		}

		return res, err
	})
}
