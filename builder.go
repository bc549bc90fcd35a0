package di

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// Builder can be used to create a Container.
// The Builder should be created with NewBuilder.
// Then you can add definitions with the Add method,
// and finally build the Container with the Build method.
type Builder struct {
	definitions    DefMap
	scopes         ScopeList
	insertionOrder map[string]int
	numAdded       int
}

// NewBuilder is the only way to create a working Builder.
// It initializes a Builder with a list of custom scopes.
// The Singleton and Prototype scopes are always available.
// It can return an error if the scopes are not valid.
func NewBuilder(scopes ...string) (*Builder, error) {
	if err := checkScopes(scopes); err != nil {
		return nil, err
	}

	return &Builder{
		definitions:    DefMap{},
		scopes:         ScopeList(scopes).Copy(),
		insertionOrder: map[string]int{},
		numAdded:       0,
	}, nil
}

// Scopes returns the list of custom scopes.
func (b *Builder) Scopes() ScopeList {
	return b.scopes.Copy()
}

// Definitions returns a map with the all the objects definitions
// registered with the Add method.
// The key of the map is the name of the Definition.
func (b *Builder) Definitions() DefMap {
	return b.definitions.Copy()
}

// IsDefined returns true if there is a definition with the given name.
func (b *Builder) IsDefined(name string) bool {
	_, ok := b.definitions[name]
	return ok
}

// Add adds one or more definitions in the Builder.
// It returns an error if a definition can not be added.
// If a definition with the same name has already been added,
// it will be replaced by the new one, as if the first one never existed.
func (b *Builder) Add(defs ...Def) error {
	for _, def := range defs {
		if err := b.add(def); err != nil {
			return err
		}
	}

	return nil
}

func (b *Builder) add(def Def) error {
	if def.Name == "" {
		return errors.New("name can not be empty")
	}

	// note that an empty scope is allowed
	// it will be replaced in the Build method by Singleton
	if def.Scope != "" && !isBuiltinScope(def.Scope) && !b.scopes.Contains(def.Scope) {
		return fmt.Errorf("scope `%s` is not allowed", def.Scope)
	}

	if def.Build == nil {
		return errors.New("Build can not be nil")
	}

	interceptorNames := make(map[string]struct{}, len(def.Interceptors))

	for _, idef := range def.Interceptors {
		if err := checkInterceptor(idef); err != nil {
			return fmt.Errorf("invalid interceptor for `%s`: %w", def.Name, err)
		}
		if _, ok := interceptorNames[idef.Name]; ok {
			return fmt.Errorf("interceptor `%s` is declared twice for `%s`", idef.Name, def.Name)
		}
		interceptorNames[idef.Name] = struct{}{}
	}

	if def.Interceptors != nil {
		def.Interceptors = append([]InterceptorDef(nil), def.Interceptors...)
	}

	if def.Is != nil {
		def.Is = append([]reflect.Type(nil), def.Is...)
	}

	b.definitions[def.Name] = def
	b.insertionOrder[def.Name] = b.numAdded
	b.numAdded++

	return nil
}

func checkInterceptor(idef InterceptorDef) error {
	if idef.Name == "" {
		return errors.New("name can not be empty")
	}

	if idef.Scope != "" && !isBuiltinScope(idef.Scope) {
		return fmt.Errorf("scope `%s` is not allowed, use Singleton or Prototype", idef.Scope)
	}

	if idef.Build == nil {
		return errors.New("Build can not be nil")
	}

	return nil
}

// Set is a shortcut to add a definition for an already built object.
func (b *Builder) Set(name string, obj interface{}) error {
	return b.add(Def{
		Name: name,
		Build: func(ctx context.Context, ctn *Container) (interface{}, error) {
			return obj, nil
		},
	})
}

// Build creates a Container with all the definitions registered in the Builder.
// The Builder can still be used afterwards, but the Container is not affected
// by the definitions added later.
func (b *Builder) Build(opts ...Option) (*Container, error) {
	o := newOptions(opts)

	var m *metrics

	if o.registerer != nil {
		var err error
		if m, err = newMetrics(o.registerer); err != nil {
			return nil, fmt.Errorf("could not register metrics: %w", err)
		}
	}

	// Put definitions in a slice and sort them by insertion order.
	definitions := make([]Def, 0, len(b.definitions))

	for _, def := range b.definitions {
		definitions = append(definitions, def)
	}

	sort.Slice(definitions, func(i, j int) bool {
		return b.insertionOrder[definitions[i].Name] < b.insertionOrder[definitions[j].Name]
	})

	ctn := &Container{
		logger:       o.logger,
		metrics:      m,
		definitions:  make(map[string]Def, len(definitions)),
		byType:       map[reflect.Type][]string{},
		order:        make([]string, 0, len(definitions)),
		scopes:       make(map[string]*Scope, len(b.scopes)),
		singletons:   newStore(),
		interceptors: newStore(),
	}

	for _, name := range b.scopes {
		ctn.scopes[name] = newScope(name, o.logger, m)
	}

	for seq, def := range definitions {
		if def.Scope == "" {
			def.Scope = Singleton
		}

		def.id = ComponentID{Name: def.Name, Qualifier: def.Qualifier, seq: seq}
		def.Interceptors = sortInterceptors(def.Interceptors)

		ctn.definitions[def.Name] = def
		ctn.order = append(ctn.order, def.Name)

		for _, typ := range def.Is {
			ctn.byType[typ] = append(ctn.byType[typ], def.Name)
		}
	}

	return ctn, nil
}
