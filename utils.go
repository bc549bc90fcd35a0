package di

import (
	"context"
	"fmt"
	"reflect"
)

// buildChainKey is the context.Context key of the buildChain.
type buildChainKey struct{}

// buildChain contains the objects that are being built
// by the Build functions calling each other.
// It is carried by the context given to the Build functions,
// and it is used to avoid cycles in object definitions.
type buildChain []ComponentID

// buildChainFrom returns the buildChain of the context.
func buildChainFrom(ctx context.Context) buildChain {
	chain, _ := ctx.Value(buildChainKey{}).(buildChain)
	return chain
}

// withBuildChain returns a copy of ctx containing the given buildChain.
func withBuildChain(ctx context.Context, chain buildChain) context.Context {
	return context.WithValue(ctx, buildChainKey{}, chain)
}

// Add returns a new buildChain ending with id.
// The original buildChain is not modified.
func (c buildChain) Add(id ComponentID) buildChain {
	chain := make(buildChain, len(c), len(c)+1)
	copy(chain, c)
	return append(chain, id)
}

// Has checks if the buildChain contains the given element.
func (c buildChain) Has(id ComponentID) bool {
	for _, e := range c {
		if e == id {
			return true
		}
	}
	return false
}

// fill copies src in dest. dest should be a pointer to src type.
func fill(src, dest interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d := reflect.TypeOf(dest)
			s := reflect.TypeOf(src)
			err = fmt.Errorf("the fill destination should be a pointer to a `%s`, but you used a `%s`", s, d)
		}
	}()

	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(src))

	return err
}
