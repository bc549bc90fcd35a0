package di

import (
	"net/http"

	"go.uber.org/zap"
)

// HTTPMiddleware activates a new Key of the given Scope for each request.
//
// The Key is active in the request context, so the objects of the Scope
// retrieved during the request are shared by the handler and its callees
// and are isolated from the other requests.
// When the handler returns, the Key is disposed: the Close functions
// of its objects are called. Disposal errors are logged with logger.
func HTTPMiddleware(h http.Handler, scope *Scope, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = defaultLogger()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := NewKey()

		defer func() {
			if err := key.Dispose(logger); err != nil {
				logger.Error("could not dispose request key",
					scopeField(scope.Name()),
					keyField(key),
					zap.Error(err),
				)
			}
		}()

		h.ServeHTTP(w, r.WithContext(scope.SetActive(r.Context(), key)))
	})
}

// KeyFromRequest returns the Key of the Scope that is active in the request context.
func KeyFromRequest(r *http.Request, scope *Scope) (*Key, bool) {
	return scope.ActiveKey(r.Context())
}
