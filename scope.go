package di

import (
	"errors"
	"fmt"
)

// Singleton is the name of the built-in scope
// where one object is shared by the whole Container.
const Singleton = "singleton"

// Prototype is the name of the built-in scope
// where a new object is built every time it is retrieved.
const Prototype = "prototype"

// ScopeList is a slice of scope names.
type ScopeList []string

// Copy returns a copy of the ScopeList.
func (l ScopeList) Copy() ScopeList {
	scopes := make(ScopeList, len(l))
	copy(scopes, l)
	return scopes
}

// Contains returns true if the ScopeList contains the given scope.
func (l ScopeList) Contains(scope string) bool {
	for _, s := range l {
		if scope == s {
			return true
		}
	}

	return false
}

// isBuiltinScope returns true for the scopes that are always available.
func isBuiltinScope(scope string) bool {
	return scope == Singleton || scope == Prototype
}

// checkScopes validates the custom scope names given to NewBuilder.
func checkScopes(scopes []string) error {
	for i, scope := range scopes {
		if scope == "" {
			return errors.New("a scope can not be an empty string")
		}
		if isBuiltinScope(scope) {
			return fmt.Errorf("`%s` is a built-in scope and can not be redeclared", scope)
		}
		if ScopeList(scopes[i+1:]).Contains(scope) {
			return fmt.Errorf("at least two scopes are identical")
		}
	}

	return nil
}
