package di

import (
	"context"
	"reflect"

	"go.uber.org/zap"
)

// Condition decides if a definition can be used.
// It is evaluated every time the object is requested,
// so it can depend on the state of the context.
type Condition func(c ConditionContext) bool

// ConditionContext gives a Condition access to the state it can be evaluated against.
type ConditionContext struct {
	ctx context.Context
	def Def
	ctn *Container
}

// Context returns the context of the resolution.
func (c ConditionContext) Context() context.Context {
	return c.ctx
}

// Definition returns the definition being evaluated.
func (c ConditionContext) Definition() Def {
	return c.def
}

// Value returns the value associated with key in the context of the resolution.
func (c ConditionContext) Value(key interface{}) interface{} {
	return c.ctx.Value(key)
}

// ScopeActive returns true if a Key is active for the given custom scope.
func (c ConditionContext) ScopeActive(scope string) bool {
	s, ok := c.ctn.scopes[scope]
	return ok && s.IsActive(c.ctx)
}

// IsCreated returns true if the object of the given definition
// has already been built, either as a singleton or in the active Key of its scope.
// Prototype objects are never considered as created.
func (c ConditionContext) IsCreated(name string) bool {
	def, ok := c.ctn.definitions[name]
	if !ok {
		return false
	}

	switch def.Scope {
	case Prototype:
		return false
	case Singleton:
		return c.ctn.singletons.Has(def.id)
	}

	_, ok = c.ctn.scopes[def.Scope].Get(c.ctx, def.id)
	return ok
}

// Matches evaluates the Condition of the definition.
// A definition without Condition always matches.
// A Condition that panics does not match.
func (ctn *Container) Matches(ctx context.Context, def Def) (ok bool) {
	if def.Condition == nil {
		return true
	}

	defer func() {
		if r := recover(); r != nil {
			ctn.logger.Warn("condition panicked", zap.String("component", def.Name), zap.Any("panic", r))
			ok = false
		}
	}()

	return def.Condition(ConditionContext{ctx: ctx, def: def, ctn: ctn})
}

// All matches if all the conditions match.
func All(conds ...Condition) Condition {
	return func(c ConditionContext) bool {
		for _, cond := range conds {
			if !cond(c) {
				return false
			}
		}
		return true
	}
}

// Any matches if at least one of the conditions matches.
func Any(conds ...Condition) Condition {
	return func(c ConditionContext) bool {
		for _, cond := range conds {
			if cond(c) {
				return true
			}
		}
		return false
	}
}

// Not inverts a Condition.
func Not(cond Condition) Condition {
	return func(c ConditionContext) bool {
		return !cond(c)
	}
}

// WhenScopeActive matches if a Key is active for the given scope.
func WhenScopeActive(scope string) Condition {
	return func(c ConditionContext) bool {
		return c.ScopeActive(scope)
	}
}

// WhenCreated matches if the object of the given definition has already been built.
func WhenCreated(name string) Condition {
	return func(c ConditionContext) bool {
		return c.IsCreated(name)
	}
}

// WhenValue matches if the context value for key is equal to want.
func WhenValue(key, want interface{}) Condition {
	return func(c ConditionContext) bool {
		return reflect.DeepEqual(c.Value(key), want)
	}
}
