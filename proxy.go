package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Proxy wraps an object whose definition has interceptors.
// The methods of the object should be called with Invoke
// so that the interceptors run around them.
//
// A definition usually provides a typed wrapper with its Proxy field:
//
//	type greeterProxy struct{ p *di.Proxy }
//
//	func (g greeterProxy) Greet(ctx context.Context, name string) (string, error) {
//		res, err := g.p.Invoke(ctx, "Greet", func(inv *di.Invocation) (interface{}, error) {
//			return inv.Target().(*Greeter).Greet(inv.Arg(0).(string))
//		}, name)
//		s, _ := res.(string)
//		return s, err
//	}
type Proxy struct {
	ctn    *Container
	def    Def
	target interface{}
}

// Component returns the ComponentID of the target.
func (p *Proxy) Component() ComponentID {
	return p.def.id
}

// Target returns the real object. Calling its methods directly skips the interceptors.
func (p *Proxy) Target() interface{} {
	return p.target
}

// Invoke calls fn through the interceptors that apply to method.
// The interceptors are ordered by priority. Singleton interceptors are reused,
// prototype interceptors are built for this invocation only.
func (p *Proxy) Invoke(
	ctx context.Context,
	method string,
	fn MethodFunc,
	args ...interface{},
) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c := &call{
		component: p.def.id,
		method:    method,
		args:      args,
		target:    p.target,
		fn:        fn,
	}

	for _, idef := range p.def.Interceptors {
		if !idef.appliesTo(method) {
			continue
		}

		interceptor, err := p.ctn.interceptor(p.def, idef)
		if err != nil {
			p.ctn.logger.Warn("could not build interceptor",
				componentField(p.def.id),
				methodField(method),
				zap.String("interceptor", idef.Name),
				zap.Error(err),
			)
			return nil, &ChainInvocationError{
				Component: p.def.Name,
				Method:    method,
				Err:       fmt.Errorf("could not build interceptor `%s`: %w", idef.Name, err),
			}
		}

		c.chain = append(c.chain, interceptor)
		c.names = append(c.names, idef.Name)
	}

	p.ctn.metrics.invoked(p.def.Name, method)

	return (&Invocation{call: c, ctx: ctx}).Proceed()
}

// interceptorID is the ComponentID of a singleton interceptor.
// There is one instance per definition and interceptor name,
// so definitions declaring interceptors with the same name do not share them.
func interceptorID(def Def, idef InterceptorDef) ComponentID {
	return ComponentID{Name: idef.Name, Qualifier: "interceptor of " + def.Name}
}

// interceptor returns the instance of the interceptor described by idef.
func (ctn *Container) interceptor(def Def, idef InterceptorDef) (Interceptor, error) {
	build := func() (interface{}, error) {
		i, err := idef.Build()
		if err != nil {
			return nil, err
		}
		if i == nil {
			return nil, fmt.Errorf("the Build function of `%s` returned a nil interceptor", idef.Name)
		}
		return i, nil
	}

	var obj interface{}
	var err error

	if idef.Scope == Prototype {
		obj, err = safeBuild(build)
	} else {
		obj, err = ctn.interceptors.GetOrCreate(interceptorID(def, idef), build)
	}

	if err != nil {
		return nil, err
	}

	return obj.(Interceptor), nil
}
