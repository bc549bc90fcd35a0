package di

import (
	"context"
	"errors"
)

// SafeGet retrieves the object defined with the given name.
// If the object does not already exist in its scope, it is built and saved.
//
// It returns:
//   - a *DefinitionNotFoundError if there is no definition for this name
//   - a *ComponentUnavailableError if the definition condition is not satisfied
//   - a *ScopeKeyMissingError if the object belongs to a custom scope without active Key in ctx
//   - a *ComponentCreationError if the Build function failed
//   - a *CycleError if the object depends on itself
//
// Objects with interceptors are returned wrapped in their Proxy.
func (ctn *Container) SafeGet(ctx context.Context, name string) (interface{}, error) {
	def, err := ctn.Definition(name)
	if err != nil {
		return nil, err
	}

	return ctn.get(ctx, def)
}

// Get is similar to SafeGet but it does not return the error.
// Instead it panics.
func (ctn *Container) Get(ctx context.Context, name string) interface{} {
	obj, err := ctn.SafeGet(ctx, name)
	if err != nil {
		panic(err)
	}

	return obj
}

// Fill is similar to SafeGet but it does not return the object.
// Instead it fills the provided object with the value returned by SafeGet.
// The provided object must be a pointer to the value returned by SafeGet.
func (ctn *Container) Fill(ctx context.Context, name string, dst interface{}) error {
	obj, err := ctn.SafeGet(ctx, name)
	if err != nil {
		return err
	}

	return fill(obj, dst)
}

func (ctn *Container) get(ctx context.Context, def Def) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if !ctn.Matches(ctx, def) {
		ctn.metrics.unavailable()
		ctn.logger.Debug("condition not satisfied", componentField(def.id))
		return nil, &ComponentUnavailableError{Name: def.Name}
	}

	return ctn.resolve(ctx, def)
}

// resolve returns the object of an eligible definition.
func (ctn *Container) resolve(ctx context.Context, def Def) (interface{}, error) {
	obj, err := ctn.getInstance(ctx, def)
	if err != nil {
		return nil, err
	}

	return ctn.wrap(def, obj), nil
}

// getInstance returns the real object, building it if it is not in its scope.
func (ctn *Container) getInstance(ctx context.Context, def Def) (interface{}, error) {
	chain := buildChainFrom(ctx)

	if chain.Has(def.id) {
		return nil, formatCycleError(chain, def)
	}

	build := func() (interface{}, error) {
		return buildObject(ctx, ctn, chain, def)
	}

	switch def.Scope {
	case Prototype:
		return observeBuild(ctn.logger, ctn.metrics, Prototype, def.id, nil, build)()
	case Singleton:
		return ctn.singletons.getOrCreate(
			def.id,
			observeBuild(ctn.logger, ctn.metrics, Singleton, def.id, nil, build),
			def.Close,
		)
	}

	scope, ok := ctn.scopes[def.Scope]
	if !ok {
		return nil, errors.New("scope `" + def.Scope + "` does not exist")
	}

	return scope.getOrCreate(ctx, def.id, build, def.Close)
}

// wrap returns the Proxy of the object if its definition has interceptors.
func (ctn *Container) wrap(def Def, obj interface{}) interface{} {
	if !def.Intercepted() {
		return obj
	}

	p := &Proxy{ctn: ctn, def: def, target: obj}

	if def.Proxy != nil {
		return def.Proxy(p)
	}

	return p
}
