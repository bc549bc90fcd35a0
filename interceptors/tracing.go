// Package interceptors contains interceptors that can be applied
// to any definition of a di.Container.
package interceptors

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/paullo612/di"
)

// Tracing starts a span for each invocation.
// The span is named after the component and the method, for example `greeter.Greet`,
// and its context is given to the rest of the chain and to the method.
func Tracing(tracer trace.Tracer) di.Interceptor {
	return di.InterceptorFunc(func(inv *di.Invocation) (interface{}, error) {
		ctx, span := tracer.Start(
			inv.Context(),
			inv.Component().Name+"."+inv.Method(),
			trace.WithAttributes(
				attribute.String("di.component", inv.Component().String()),
				attribute.String("di.method", inv.Method()),
				attribute.Int("di.args", len(inv.Args())),
			),
		)
		defer span.End()

		inv.SetContext(ctx)

		res, err := inv.Proceed()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return res, err
	})
}
