package di

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// activeKey is the context.Context key used to store the activation of a Scope.
type activeKey struct {
	scope *Scope
}

// activation is created by each SetActive call.
// The contexts derived from the same SetActive call share it.
type activation struct {
	key     *Key
	cleared atomic.Bool
}

// Scope is a custom scope. Its objects live as long as the Key they were built with.
// A Scope does not rely on goroutine identity: the active Key is carried
// by the context.Context given to each method.
//
// Scopes are created by Builder.Build, one for each name given to NewBuilder,
// and retrieved with Container.Scope.
type Scope struct {
	name    string
	logger  *zap.Logger
	metrics *metrics
}

func newScope(name string, logger *zap.Logger, m *metrics) *Scope {
	return &Scope{
		name:    name,
		logger:  logger,
		metrics: m,
	}
}

// Name returns the name of the Scope.
func (s *Scope) Name() string {
	return s.name
}

// SetActive returns a copy of ctx where key is the active Key of the Scope.
// It replaces the Key that may have been active in ctx.
// Several contexts can activate the same Key. They share its objects.
func (s *Scope) SetActive(ctx context.Context, key *Key) context.Context {
	if key == nil {
		return context.WithValue(ctx, activeKey{scope: s}, (*activation)(nil))
	}

	key.hold()
	return context.WithValue(ctx, activeKey{scope: s}, &activation{key: key})
}

// ClearActive returns a copy of ctx where no Key is active for the Scope.
// The activation of ctx is given up. When every context that activated the Key
// has been cleared, the Store of the Key is released: its objects are
// no longer reachable from the Key, but they are not closed.
// Use Key.Dispose to close them.
func (s *Scope) ClearActive(ctx context.Context) context.Context {
	if act := s.activation(ctx); act != nil && act.cleared.CompareAndSwap(false, true) {
		act.key.unhold()
	}

	return context.WithValue(ctx, activeKey{scope: s}, (*activation)(nil))
}

func (s *Scope) activation(ctx context.Context) *activation {
	if ctx == nil {
		return nil
	}

	act, _ := ctx.Value(activeKey{scope: s}).(*activation)
	return act
}

// ActiveKey returns the Key that is active in ctx.
func (s *Scope) ActiveKey(ctx context.Context) (*Key, bool) {
	act := s.activation(ctx)
	if act == nil {
		return nil, false
	}

	return act.key, true
}

// IsActive returns true if a Key is active in ctx.
func (s *Scope) IsActive(ctx context.Context) bool {
	_, ok := s.ActiveKey(ctx)
	return ok
}

// Get returns the object saved for id in the Store of the active Key.
// It does not allocate a Store.
func (s *Scope) Get(ctx context.Context, id ComponentID) (interface{}, bool) {
	key, ok := s.ActiveKey(ctx)
	if !ok {
		return nil, false
	}

	store := key.getStore(false)
	if store == nil {
		return nil, false
	}

	r, ok := store.Get(id)
	return r.Instance, ok
}

// GetOrCreate returns the object saved for id in the Store of the active Key.
// If it does not exist, it is built with build and saved.
// It returns a *ScopeKeyMissingError if no Key is active in ctx,
// and a *ComponentCreationError if build fails or panics.
func (s *Scope) GetOrCreate(
	ctx context.Context,
	id ComponentID,
	build func() (interface{}, error),
) (interface{}, error) {
	return s.getOrCreate(ctx, id, func() (interface{}, error) {
		obj, err := safeBuild(build)
		if err != nil {
			return nil, &ComponentCreationError{Name: id.Name, Err: err}
		}
		return obj, nil
	}, nil)
}

func (s *Scope) getOrCreate(
	ctx context.Context,
	id ComponentID,
	build func() (interface{}, error),
	closeFunc func(obj interface{}) error,
) (interface{}, error) {
	key, ok := s.ActiveKey(ctx)
	if !ok {
		return nil, &ScopeKeyMissingError{Scope: s.name}
	}

	return key.getStore(true).getOrCreate(
		id,
		observeBuild(s.logger, s.metrics, s.name, id, key, build),
		closeFunc,
	)
}

// Close does nothing. The objects of a Scope are released with their Key.
func (s *Scope) Close() error {
	return nil
}
