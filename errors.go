package di

import (
	"fmt"
	"strings"
)

// ScopeKeyMissingError is returned when an object of a custom scope
// is requested while no Key is active for this scope in the context.
type ScopeKeyMissingError struct {
	Scope string
}

func (e *ScopeKeyMissingError) Error() string {
	return fmt.Sprintf("no key is active for scope `%s`", e.Scope)
}

// ComponentUnavailableError is returned when the Condition of a definition
// is not satisfied. The object is considered as not existing.
type ComponentUnavailableError struct {
	Name string
}

func (e *ComponentUnavailableError) Error() string {
	return fmt.Sprintf("`%s` is not available because its condition is not satisfied", e.Name)
}

// ComponentCreationError wraps the error returned (or the panic raised) by a Build function.
type ComponentCreationError struct {
	Name string
	Err  error
}

func (e *ComponentCreationError) Error() string {
	return fmt.Sprintf("could not build `%s`: %v", e.Name, e.Err)
}

func (e *ComponentCreationError) Unwrap() error {
	return e.Err
}

// ChainInvocationError is returned when an interceptor or the target method panics,
// or when a prototype interceptor can not be built.
// Errors returned normally by interceptors and targets are never wrapped.
type ChainInvocationError struct {
	Component string
	Method    string
	Err       error
}

func (e *ChainInvocationError) Error() string {
	return fmt.Sprintf("invocation of `%s.%s` failed: %v", e.Component, e.Method, e.Err)
}

func (e *ChainInvocationError) Unwrap() error {
	return e.Err
}

// DefinitionNotFoundError is returned when no definition matches the requested name or type.
type DefinitionNotFoundError struct {
	Name string
}

func (e *DefinitionNotFoundError) Error() string {
	return fmt.Sprintf("no definition found for `%s`", e.Name)
}

// AmbiguousDefinitionError is returned when several eligible definitions match a type.
type AmbiguousDefinitionError struct {
	Type       string
	Candidates []string
}

func (e *AmbiguousDefinitionError) Error() string {
	return fmt.Sprintf(
		"several definitions match `%s`: %s",
		e.Type, strings.Join(e.Candidates, ", "),
	)
}

// CycleError is returned when a definition depends on itself.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf(
		"could not get `%s` because there is a cycle in the object definitions (%v)",
		e.Chain[len(e.Chain)-1], e.Chain,
	)
}

// IsNotFound returns true if the error means that the object does not exist,
// either because it is not defined or because its condition is not satisfied.
// These errors can be used to fall back on another value.
// A dependency missing inside a Build function is a creation failure of the
// object being built, so wrapped errors are not inspected.
func IsNotFound(err error) bool {
	switch err.(type) {
	case *ComponentUnavailableError, *DefinitionNotFoundError:
		return true
	}
	return false
}
