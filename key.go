package di

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Key represents one instance of a custom scope, for example one job or one request.
// A Key is attached to a context.Context with Scope.SetActive.
// The objects built while the Key is active are stored in a Store owned by the Key.
// The Store is only allocated when the first object is built.
//
// The same Key can be active in several goroutines at the same time.
// They share the same objects.
type Key struct {
	id uuid.UUID

	m     sync.Mutex
	store *Store

	// holders is the number of activations of the Key that are not cleared.
	holders int
}

// NewKey creates a new Key with a random identifier.
func NewKey() *Key {
	return &Key{id: uuid.New()}
}

// ID returns the identifier of the Key.
func (k *Key) ID() uuid.UUID {
	return k.id
}

func (k *Key) String() string {
	if k == nil {
		return "<nil>"
	}
	return k.id.String()
}

// Store returns the Store of the Key, or nil if no object has been built yet.
func (k *Key) Store() *Store {
	return k.getStore(false)
}

// getStore returns the Store of the Key.
// The Store is only created if forCreation is true.
func (k *Key) getStore(forCreation bool) *Store {
	k.m.Lock()
	defer k.m.Unlock()

	if k.store == nil && forCreation {
		k.store = newStore()
	}

	return k.store
}

// Release detaches the Store from the Key and returns it.
// It returns nil if the Key did not have a Store.
// The next object built with this Key will be stored in a new Store.
// The objects of the released Store are not closed.
func (k *Key) Release() *Store {
	k.m.Lock()
	defer k.m.Unlock()

	store := k.store
	k.store = nil
	return store
}

// hold registers a new activation of the Key.
func (k *Key) hold() {
	k.m.Lock()
	defer k.m.Unlock()
	k.holders++
}

// unhold removes an activation of the Key.
// The Store is released when no activation is left.
func (k *Key) unhold() {
	k.m.Lock()
	defer k.m.Unlock()

	if k.holders > 0 {
		k.holders--
	}
	if k.holders == 0 {
		k.store = nil
	}
}

// Dispose releases the Store of the Key and closes all its objects
// with the Close function of their definition, in the reverse order of their creation.
// Nothing is closed automatically, so Dispose must be called explicitly
// when the objects hold resources.
func (k *Key) Dispose(logger *zap.Logger) error {
	store := k.Release()
	if store == nil {
		return nil
	}

	if logger == nil {
		logger = defaultLogger()
	}

	return store.Dispose(logger.With(keyField(k)))
}
