package di

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHTTPMiddleware(t *testing.T) {
	var counter int64

	var m sync.Mutex
	singletonClosed := false
	closedIDs := []int{}

	b, _ := NewBuilder("request")

	b.Add(
		Def{
			Name: "object",
			Build: func(ctx context.Context, ctn *Container) (interface{}, error) {
				return &mockObject{ID: 100}, nil
			},
			Close: func(obj interface{}) error {
				singletonClosed = true
				return nil
			},
		},
		Def{
			Name:  "request-object",
			Scope: "request",
			Build: countingBuild(&counter),
			Close: func(obj interface{}) error {
				m.Lock()
				defer m.Unlock()
				closedIDs = append(closedIDs, obj.(*mockObject).ID)
				return nil
			},
		},
	)

	ctn, _ := b.Build()
	scope := ctn.Scope("request")

	h := func(w http.ResponseWriter, r *http.Request) {
		key, ok := KeyFromRequest(r, scope)
		require.True(t, ok)
		require.NotNil(t, key)

		// the same object is shared during the request
		first := ctn.Get(r.Context(), "request-object").(*mockObject)
		second := ctn.Get(r.Context(), "request-object").(*mockObject)
		require.True(t, first == second)

		total := ctn.Get(r.Context(), "object").(*mockObject).ID + first.ID
		io.WriteString(w, strconv.Itoa(total))
	}

	ts := httptest.NewServer(HTTPMiddleware(http.HandlerFunc(h), scope, nil))
	defer ts.Close()

	for _, expected := range []string{"101", "102"} {
		res, err := http.Get(ts.URL)
		require.Nil(t, err)

		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		require.Nil(t, err)

		require.Equal(t, expected, string(body), "each request should have its own object")
	}

	m.Lock()
	require.Equal(t, []int{1, 2}, closedIDs)
	m.Unlock()
	require.False(t, singletonClosed)
}

func TestHTTPMiddlewarePanic(t *testing.T) {
	b, _ := NewBuilder("request")

	closed := false

	b.Add(Def{
		Name:  "object",
		Scope: "request",
		Build: nilBuild,
		Close: func(obj interface{}) error {
			closed = true
			return nil
		},
	})

	ctn, _ := b.Build()
	scope := ctn.Scope("request")

	recovered := false

	panicRecoveryMiddleware := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					recovered = true
				}
			}()
			h.ServeHTTP(w, r)
		})
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctn.Get(r.Context(), "object")
		panic("handler panic")
	})

	rec := httptest.NewRecorder()
	panicRecoveryMiddleware(HTTPMiddleware(h, scope, nil)).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	require.True(t, recovered)
	require.True(t, closed, "the objects should be closed even if the handler panics")
}

func TestHTTPMiddlewareCloseError(t *testing.T) {
	b, _ := NewBuilder("request")

	b.Add(Def{
		Name:  "object",
		Scope: "request",
		Build: nilBuild,
		Close: func(obj interface{}) error {
			return errors.New("close error")
		},
	})

	ctn, _ := b.Build()
	scope := ctn.Scope("request")

	core, logs := observer.New(zapcore.InfoLevel)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctn.Get(r.Context(), "object")
	})

	rec := httptest.NewRecorder()
	HTTPMiddleware(h, scope, zap.New(core)).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("could not dispose request key").All()
	require.Len(t, entries, 1)
	require.Equal(t, "request", entries[0].ContextMap()["scope"])
	require.Contains(t, entries[0].ContextMap()["error"], "close error")
}

func TestKeyFromRequest(t *testing.T) {
	b, _ := NewBuilder("request")
	ctn, _ := b.Build()
	scope := ctn.Scope("request")

	req := httptest.NewRequest("GET", "/", nil)

	_, ok := KeyFromRequest(req, scope)
	require.False(t, ok)

	key := NewKey()
	req = req.WithContext(scope.SetActive(req.Context(), key))

	k, ok := KeyFromRequest(req, scope)
	require.True(t, ok)
	require.True(t, key == k)
}
