package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// buildObject wraps the Build function to recover from a panic.
// The errors are returned as *ComponentCreationError.
func buildObject(ctx context.Context, ctn *Container, chain buildChain, def Def) (obj interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			obj = nil
			err = &ComponentCreationError{
				Name: def.Name,
				Err:  fmt.Errorf("the build function panicked: %+v", r),
			}
		}
	}()

	obj, err = def.Build(withBuildChain(ctx, chain.Add(def.id)), ctn)
	if err != nil {
		return nil, &ComponentCreationError{Name: def.Name, Err: err}
	}

	return obj, nil
}

// observeBuild adds logs and metrics around a build function.
func observeBuild(
	logger *zap.Logger,
	m *metrics,
	scope string,
	id ComponentID,
	key *Key,
	build func() (interface{}, error),
) func() (interface{}, error) {
	fields := []zap.Field{componentField(id), scopeField(scope)}
	if key != nil {
		fields = append(fields, keyField(key))
	}

	return func() (interface{}, error) {
		obj, err := build()
		if err != nil {
			m.creationFailed(scope)
			logger.Warn("could not build object", append(fields, zap.Error(err))...)
			return nil, err
		}

		m.created(scope)
		logger.Debug("object created", fields...)
		return obj, nil
	}
}

// formatCycleError formats the error that happens when a cycle is detected.
func formatCycleError(chain buildChain, def Def) error {
	names := make([]string, 0, len(chain)+1)

	for _, id := range chain {
		names = append(names, id.Name)
	}

	return &CycleError{Chain: append(names, def.Name)}
}
