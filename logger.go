package di

import (
	"go.uber.org/zap"
)

// defaultLogger does not log anything.
// Use WithLogger to get the logs of a Container.
func defaultLogger() *zap.Logger {
	return zap.NewNop()
}

func componentField(id ComponentID) zap.Field {
	return zap.Stringer("component", id)
}

func scopeField(scope string) zap.Field {
	return zap.String("scope", scope)
}

func keyField(key *Key) zap.Field {
	return zap.Stringer("key", key)
}

func methodField(method string) zap.Field {
	return zap.String("method", method)
}
