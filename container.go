package di

import (
	"reflect"
	"sort"

	"go.uber.org/zap"
)

// Container contains the definitions of the objects and the singletons built from them.
// To create a Container, you should use a Builder.
//
// The definitions can not be changed once the Container is built,
// so they can be read without synchronization.
// Objects can be retrieved from the Container with SafeGet, Get, Fill or a Provider.
// If the requested object does not already exist in its scope,
// it is built thanks to the object definition.
type Container struct {
	logger  *zap.Logger
	metrics *metrics

	// definitions and indexes
	definitions map[string]Def
	byType      map[reflect.Type][]string
	order       []string

	// scopes
	scopes map[string]*Scope

	// singletons contains the objects of the Singleton scope.
	singletons *Store

	// interceptors contains the singleton interceptors.
	interceptors *Store
}

// Definitions returns the map of the available definitions ordered by name.
// These definitions represent all the objects that this Container can build.
func (ctn *Container) Definitions() map[string]Def {
	defs := make(map[string]Def, len(ctn.definitions))

	for name, def := range ctn.definitions {
		defs[name] = def
	}

	return defs
}

// Definition returns the definition with the given name.
// It returns a *DefinitionNotFoundError if there is none.
func (ctn *Container) Definition(name string) (Def, error) {
	def, ok := ctn.definitions[name]
	if !ok {
		return Def{}, &DefinitionNotFoundError{Name: name}
	}
	return def, nil
}

// NameIsDefined returns true if there is a definition for the given name.
func (ctn *Container) NameIsDefined(name string) bool {
	_, ok := ctn.definitions[name]
	return ok
}

// TypeIsDefined returns true if there is a definition for the given type.
// Types are declared in the Is field of a definition.
func (ctn *Container) TypeIsDefined(typ reflect.Type) bool {
	_, ok := ctn.byType[typ]
	return ok
}

// DefinitionsForType returns the list of the definitions matching the given type,
// in the order they were added to the Builder.
// Types are declared in the Is field of a definition.
func (ctn *Container) DefinitionsForType(typ reflect.Type) []Def {
	names := ctn.byType[typ]
	defs := make([]Def, 0, len(names))

	for _, name := range names {
		defs = append(defs, ctn.definitions[name])
	}

	return defs
}

// Scope returns the custom scope with the given name, or nil if it does not exist.
func (ctn *Container) Scope(name string) *Scope {
	return ctn.scopes[name]
}

// Scopes returns the names of the custom scopes, sorted alphabetically.
func (ctn *Container) Scopes() []string {
	scopes := make([]string, 0, len(ctn.scopes))

	for name := range ctn.scopes {
		scopes = append(scopes, name)
	}

	sort.Strings(scopes)
	return scopes
}

// Logger returns the logger of the Container.
func (ctn *Container) Logger() *zap.Logger {
	return ctn.logger
}

// Delete closes all the singletons with the Close function of their definition,
// in the reverse order of their creation. The singleton interceptors are dropped.
// The Container can still be used afterwards: the singletons will be built again.
// Objects of custom scopes are not affected, use Key.Dispose to close them.
func (ctn *Container) Delete() error {
	ctn.interceptors.Dispose(ctn.logger)
	return ctn.singletons.Dispose(ctn.logger.With(scopeField(Singleton)))
}
