package di

import (
	"context"
	"fmt"
	"sort"
)

// Interceptor runs around the methods of an object called through its Proxy.
// Intercept can call inv.Proceed to run the rest of the chain and the method:
// zero, one or several times. What Intercept returns is what the caller receives.
type Interceptor interface {
	Intercept(inv *Invocation) (interface{}, error)
}

// InterceptorFunc is a function implementing Interceptor.
type InterceptorFunc func(inv *Invocation) (interface{}, error)

// Intercept calls f(inv).
func (f InterceptorFunc) Intercept(inv *Invocation) (interface{}, error) {
	return f(inv)
}

// InterceptorDef describes an interceptor applied to a definition.
type InterceptorDef struct {
	// Name is used in errors and logs.
	Name string

	// Priority orders the interceptors. Lower values run first.
	// Interceptors with the same priority run in declaration order.
	Priority int

	// Scope is Singleton (built once per Container, the default)
	// or Prototype (built for each invocation).
	Scope string

	// Methods restricts the interceptor to these methods.
	// If empty, every method is intercepted.
	Methods []string

	// Build creates the interceptor.
	Build func() (Interceptor, error)
}

func (d InterceptorDef) appliesTo(method string) bool {
	if len(d.Methods) == 0 {
		return true
	}

	for _, m := range d.Methods {
		if m == method {
			return true
		}
	}

	return false
}

// sortInterceptors returns a copy of defs ordered by priority.
func sortInterceptors(defs []InterceptorDef) []InterceptorDef {
	sorted := make([]InterceptorDef, len(defs))
	copy(sorted, defs)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	return sorted
}

// MethodFunc calls the real method of the target.
// It should read the arguments from inv as interceptors may have replaced them.
type MethodFunc func(inv *Invocation) (interface{}, error)

// call contains the data shared by all the frames of one invocation.
type call struct {
	component ComponentID
	method    string
	args      []interface{}
	target    interface{}
	chain     []Interceptor
	names     []string
	fn        MethodFunc
}

// Invocation represents one call through a Proxy.
// Each interceptor receives its own Invocation whose cursor points
// to the next element of the chain, so Proceed can be called more than once.
type Invocation struct {
	call   *call
	cursor int
	ctx    context.Context
}

// Context returns the context of the invocation.
// It is the context given to Proxy.Invoke unless a previous interceptor replaced it.
func (inv *Invocation) Context() context.Context {
	return inv.ctx
}

// SetContext replaces the context for the rest of the chain and the method.
// The interceptors that already ran keep their context.
func (inv *Invocation) SetContext(ctx context.Context) {
	inv.ctx = ctx
}

// Component returns the ComponentID of the target.
func (inv *Invocation) Component() ComponentID {
	return inv.call.component
}

// Method returns the name of the invoked method.
func (inv *Invocation) Method() string {
	return inv.call.method
}

// Target returns the real object.
func (inv *Invocation) Target() interface{} {
	return inv.call.target
}

// Args returns the arguments of the call.
func (inv *Invocation) Args() []interface{} {
	return inv.call.args
}

// Arg returns the argument at position i.
func (inv *Invocation) Arg(i int) interface{} {
	return inv.call.args[i]
}

// SetArg replaces the argument at position i
// for the rest of the chain and the method.
func (inv *Invocation) SetArg(i int, v interface{}) {
	inv.call.args[i] = v
}

// Remaining returns the number of interceptors that Proceed will run before the method.
func (inv *Invocation) Remaining() int {
	return len(inv.call.chain) - inv.cursor
}

// Proceed runs the next interceptor of the chain, or the method
// if there are no interceptors left, and returns its result.
// Errors are returned unchanged. A panic is converted into a *ChainInvocationError.
func (inv *Invocation) Proceed() (interface{}, error) {
	if inv.cursor >= len(inv.call.chain) {
		return inv.protect("target", func() (interface{}, error) {
			return inv.call.fn(inv)
		})
	}

	next := &Invocation{call: inv.call, cursor: inv.cursor + 1, ctx: inv.ctx}
	interceptor := inv.call.chain[inv.cursor]

	return inv.protect(inv.call.names[inv.cursor], func() (interface{}, error) {
		return interceptor.Intercept(next)
	})
}

func (inv *Invocation) protect(name string, f func() (interface{}, error)) (res interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ChainInvocationError{
				Component: inv.call.component.Name,
				Method:    inv.call.method,
				Err:       fmt.Errorf("`%s` panicked: %+v", name, r),
			}
		}
	}()

	return f()
}
