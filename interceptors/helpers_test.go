package interceptors_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paullo612/di"
)

var errTemporary = errors.New("temporary error")

// flaky fails the first failures calls of Call.
type flaky struct {
	failures int
	calls    int
}

func (f *flaky) Call() (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errTemporary
	}
	return "ok", nil
}

// call invokes flaky.Call through the proxy.
func call(ctx context.Context, p *di.Proxy) (interface{}, error) {
	return p.Invoke(ctx, "Call", func(inv *di.Invocation) (interface{}, error) {
		return inv.Target().(*flaky).Call()
	}, "arg")
}

// newFlaky returns the proxy of a flaky object using the given interceptors.
func newFlaky(t *testing.T, failures int, interceptors ...di.Interceptor) (*di.Proxy, *flaky) {
	defs := make([]di.InterceptorDef, len(interceptors))
	for i, interceptor := range interceptors {
		interceptor := interceptor
		defs[i] = di.InterceptorDef{
			Name:     "interceptor" + string(rune('a'+i)),
			Priority: i,
			Build: func() (di.Interceptor, error) {
				return interceptor, nil
			},
		}
	}

	obj := &flaky{failures: failures}

	b, _ := di.NewBuilder()
	err := b.Add(di.Def{
		Name: "flaky",
		Build: func(ctx context.Context, ctn *di.Container) (interface{}, error) {
			return obj, nil
		},
		Interceptors: defs,
	})
	require.Nil(t, err)

	ctn, err := b.Build()
	require.Nil(t, err)

	return ctn.Get(context.Background(), "flaky").(*di.Proxy), obj
}
