package di

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

// closeRecorder registers the definitions whose Close function records their name.
type closeRecorder struct {
	closed []string
}

func (r *closeRecorder) def(name, scope string, closeErr error) Def {
	return Def{
		Name:  name,
		Scope: scope,
		Build: func(ctx context.Context, ctn *Container) (interface{}, error) {
			return &mockObject{}, nil
		},
		Close: func(obj interface{}) error {
			obj.(*mockObject).Closed = true
			r.closed = append(r.closed, name)
			return closeErr
		},
	}
}

func TestKeyDispose(t *testing.T) {
	rec := &closeRecorder{}

	b, _ := NewBuilder("job")
	b.Add(
		rec.def("first", "job", nil),
		rec.def("second", "job", nil),
		rec.def("third", "job", nil),
		Def{Name: "noClose", Scope: "job", Build: nilBuild},
	)

	ctn, _ := b.Build()
	scope := ctn.Scope("job")

	key := NewKey()
	ctx := scope.SetActive(context.Background(), key)

	second := ctn.Get(ctx, "second").(*mockObject)
	ctn.Get(ctx, "noClose")
	first := ctn.Get(ctx, "first").(*mockObject)
	ctn.Get(ctx, "third")

	require.Nil(t, key.Dispose(nil))
	require.Equal(t, []string{"third", "first", "second"}, rec.closed, "objects should be closed in reverse creation order")
	require.True(t, first.Closed)
	require.True(t, second.Closed)
	require.Nil(t, key.Store())

	// the key can still be used, and a new object is created
	newSecond := ctn.Get(ctx, "second").(*mockObject)
	require.False(t, second == newSecond)
	require.False(t, newSecond.Closed)

	// disposing twice only closes the new objects
	rec.closed = nil
	require.Nil(t, key.Dispose(nil))
	require.Nil(t, key.Dispose(nil))
	require.Equal(t, []string{"second"}, rec.closed)
}

func TestKeyDisposeErrors(t *testing.T) {
	rec := &closeRecorder{}

	b, _ := NewBuilder("job")
	b.Add(
		rec.def("ok", "job", nil),
		rec.def("failing1", "job", errors.New("close error 1")),
		rec.def("failing2", "job", errors.New("close error 2")),
		Def{
			Name:  "panicking",
			Scope: "job",
			Build: nilBuild,
			Close: func(obj interface{}) error {
				panic("close panic")
			},
		},
	)

	ctn, _ := b.Build()
	scope := ctn.Scope("job")

	key := NewKey()
	ctx := scope.SetActive(context.Background(), key)

	for _, name := range []string{"ok", "failing1", "panicking", "failing2"} {
		_, err := ctn.SafeGet(ctx, name)
		require.Nil(t, err)
	}

	err := key.Dispose(nil)
	require.NotNil(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 3)
	require.Contains(t, errs[0].Error(), "close error 2")
	require.Contains(t, errs[1].Error(), "close panic")
	require.Contains(t, errs[2].Error(), "close error 1")

	require.Equal(t, []string{"failing2", "failing1", "ok"}, rec.closed, "every object should be closed even if one fails")
}

func TestClearActiveDoesNotClose(t *testing.T) {
	rec := &closeRecorder{}

	b, _ := NewBuilder("job")
	b.Add(rec.def("object", "job", nil))

	ctn, _ := b.Build()
	scope := ctn.Scope("job")

	key := NewKey()
	ctx := scope.SetActive(context.Background(), key)

	obj := ctn.Get(ctx, "object").(*mockObject)

	cleared := scope.ClearActive(ctx)
	require.False(t, scope.IsActive(cleared))
	require.Nil(t, key.Store())
	require.Empty(t, rec.closed)
	require.False(t, obj.Closed)

	_, err := ctn.SafeGet(cleared, "object")
	require.IsType(t, &ScopeKeyMissingError{}, err)
}

func TestContainerDelete(t *testing.T) {
	rec := &closeRecorder{}

	b, _ := NewBuilder("job")
	b.Add(
		rec.def("singleton1", Singleton, nil),
		rec.def("singleton2", Singleton, errors.New("close error")),
		rec.def("prototype", Prototype, nil),
		rec.def("scoped", "job", nil),
	)

	ctn, _ := b.Build()
	scope := ctn.Scope("job")
	ctx := scope.SetActive(context.Background(), NewKey())

	for _, name := range []string{"singleton1", "prototype", "scoped", "singleton2"} {
		ctn.Get(ctx, name)
	}

	err := ctn.Delete()
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "singleton2")

	require.Equal(t, []string{"singleton2", "singleton1"}, rec.closed, "only singletons belong to the Container")
	require.Equal(t, 0, ctn.singletons.Len())

	rec.closed = nil
	require.Nil(t, ctn.Delete())
	require.Empty(t, rec.closed)
}

func TestStoreDisposeDuringCreation(t *testing.T) {
	s := newStore()

	var built, closed int64

	closeFunc := func(obj interface{}) error {
		atomic.AddInt64(&closed, 1)
		return nil
	}

	var wg sync.WaitGroup

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.getOrCreate(ComponentID{Name: "object" + strconv.Itoa(i)}, func() (interface{}, error) {
				atomic.AddInt64(&built, 1)
				return i, nil
			}, closeFunc)
		}(i)
	}

	disposed := make(chan struct{})
	go func() {
		defer close(disposed)
		for i := 0; i < 50; i++ {
			require.Nil(t, s.Dispose(defaultLogger()))
		}
	}()

	wg.Wait()
	<-disposed

	require.Nil(t, s.Dispose(defaultLogger()))
	require.Equal(t, atomic.LoadInt64(&built), atomic.LoadInt64(&closed), "every created object should be closed once")
}
