package di

import (
	"context"
	"reflect"
	"strconv"
)

// ComponentID identifies a definition bound to a Container.
// It is assigned by the Builder and can be used as a map key.
type ComponentID struct {
	Name      string
	Qualifier string
	seq       int
}

// Seq returns the creation sequence of the definition in its Builder.
func (id ComponentID) Seq() int {
	return id.seq
}

// IsZero returns true if the ComponentID was not assigned by a Builder.
func (id ComponentID) IsZero() bool {
	return id == ComponentID{}
}

func (id ComponentID) String() string {
	s := id.Name
	if id.Qualifier != "" {
		s += "(" + id.Qualifier + ")"
	}
	return s + "#" + strconv.Itoa(id.seq)
}

// BuildFunc builds an object. The Container can be used to retrieve dependencies.
// The context must be forwarded to the Container so that
// the active scope keys and the build chain are preserved.
type BuildFunc func(ctx context.Context, ctn *Container) (interface{}, error)

// Def contains information to build and close an object inside a Container.
type Def struct {
	// Name is the unique name of the definition.
	Name string

	// Qualifier distinguishes definitions sharing the same types.
	Qualifier string

	// Scope is either Singleton, Prototype or one of the custom scopes
	// given to NewBuilder. An empty scope means Singleton.
	Scope string

	// Build creates the object.
	Build BuildFunc

	// Close is called by Key.Dispose or Container.Delete.
	// It is never called automatically.
	Close func(obj interface{}) error

	// Condition gates the definition. It is evaluated on every resolution.
	Condition Condition

	// Interceptors wrap the object methods called through its Proxy.
	Interceptors []InterceptorDef

	// Proxy converts the generic Proxy into a typed value
	// exposing one entry point per intercepted method.
	// If nil, the *Proxy itself is returned.
	Proxy func(p *Proxy) interface{}

	// Is lists the types the object can be retrieved with in ProviderOf.
	Is []reflect.Type

	id ComponentID
}

// ID returns the ComponentID assigned when the definition was added to a Container.
func (def Def) ID() ComponentID {
	return def.id
}

// Intercepted returns true if the object is returned wrapped in a Proxy.
func (def Def) Intercepted() bool {
	return len(def.Interceptors) > 0
}

// NewIs returns the types of the given objects.
// It can be used to fill the Is field of a definition.
// A nil pointer to an interface, like (*io.Reader)(nil), stands for the interface itself.
func NewIs(objs ...interface{}) []reflect.Type {
	types := make([]reflect.Type, len(objs))

	for i, obj := range objs {
		typ := reflect.TypeOf(obj)
		if typ != nil && typ.Kind() == reflect.Ptr && typ.Elem().Kind() == reflect.Interface {
			typ = typ.Elem()
		}
		types[i] = typ
	}

	return types
}

// DefMap is a collection of Def ordered by name.
type DefMap map[string]Def

// Copy returns a copy of the DefMap.
func (m DefMap) Copy() DefMap {
	defs := DefMap{}

	for name, def := range m {
		defs[name] = def
	}

	return defs
}
