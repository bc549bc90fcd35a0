package di

import (
	"context"
	"reflect"
)

// Provider retrieves an object lazily.
// It can check if the object is available without building it,
// which is useful when the object has a Condition.
// A Provider does not cache anything: each call is evaluated against the given context.
type Provider struct {
	ctn   *Container
	label string
	names []string
	typ   reflect.Type
}

// Provider returns a Provider for the definition with the given name.
func (ctn *Container) Provider(name string) Provider {
	p := Provider{ctn: ctn, label: name}

	if ctn.NameIsDefined(name) {
		p.names = []string{name}
	}

	return p
}

// ProviderOf returns a Provider for the definitions declaring the given type in their Is field.
func (ctn *Container) ProviderOf(typ reflect.Type) Provider {
	return Provider{
		ctn:   ctn,
		label: typ.String(),
		names: ctn.byType[typ],
		typ:   typ,
	}
}

// eligible returns the definitions whose condition is currently satisfied.
func (p Provider) eligible(ctx context.Context) []Def {
	defs := make([]Def, 0, len(p.names))

	for _, name := range p.names {
		def := p.ctn.definitions[name]
		if p.ctn.Matches(ctx, def) {
			defs = append(defs, def)
		}
	}

	return defs
}

// IsUnique returns true if exactly one eligible definition matches the Provider.
func (p Provider) IsUnique(ctx context.Context) bool {
	if ctx == nil {
		ctx = context.Background()
	}

	return len(p.eligible(ctx)) == 1
}

// IsPresent returns true if Get would currently find the object:
// exactly one eligible definition matches the Provider,
// and an active Key exists if it belongs to a custom scope.
// The object is never built by IsPresent, so a failure of its Build function
// is only detected by Get.
func (p Provider) IsPresent(ctx context.Context) bool {
	if ctx == nil {
		ctx = context.Background()
	}

	defs := p.eligible(ctx)
	if len(defs) != 1 {
		return false
	}

	if isBuiltinScope(defs[0].Scope) {
		return true
	}

	scope, ok := p.ctn.scopes[defs[0].Scope]
	return ok && scope.IsActive(ctx)
}

// Get retrieves the object, building it if needed.
// It fails with the same errors as Container.SafeGet,
// and with an *AmbiguousDefinitionError if several eligible definitions match the type.
func (p Provider) Get(ctx context.Context) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if len(p.names) == 0 {
		return nil, &DefinitionNotFoundError{Name: p.label}
	}

	if p.typ == nil {
		return p.ctn.SafeGet(ctx, p.names[0])
	}

	defs := p.eligible(ctx)

	switch len(defs) {
	case 0:
		p.ctn.metrics.unavailable()
		return nil, &ComponentUnavailableError{Name: p.label}
	case 1:
		return p.ctn.resolve(ctx, defs[0])
	}

	candidates := make([]string, len(defs))
	for i, def := range defs {
		candidates[i] = def.Name
	}

	return nil, &AmbiguousDefinitionError{Type: p.label, Candidates: candidates}
}

// Find is similar to Get but it does not return an error
// if the object is not defined or not available.
// Instead ok is false. It can be used for optional dependencies.
func (p Provider) Find(ctx context.Context) (obj interface{}, ok bool, err error) {
	obj, err = p.Get(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return obj, true, nil
}
