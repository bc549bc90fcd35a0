package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Container created by Builder.Build.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
}

func newOptions(opts []Option) options {
	o := options{logger: defaultLogger()}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the logger used by the Container, its scopes and its proxies.
// A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = defaultLogger()
		}
		o.logger = logger
	}
}

// WithMetrics registers the Container collectors in reg.
// Build returns an error if they can not be registered.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}
