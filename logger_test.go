package di

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	b, _ := NewBuilder("job")
	b.Add(
		Def{Name: "scoped", Scope: "job", Build: nilBuild},
		Def{
			Name: "failing",
			Build: func(ctx context.Context, ctn *Container) (interface{}, error) {
				return nil, errors.New("build error")
			},
		},
		Def{
			Name:      "disabled",
			Build:     nilBuild,
			Condition: func(c ConditionContext) bool { return false },
		},
	)

	ctn, err := b.Build(WithLogger(zap.New(core)))
	require.Nil(t, err)
	require.NotNil(t, ctn.Logger())

	scope := ctn.Scope("job")
	key := NewKey()
	ctx := scope.SetActive(context.Background(), key)

	ctn.Get(ctx, "scoped")

	created := logs.FilterMessage("object created").All()
	require.Len(t, created, 1)
	require.Equal(t, "job", created[0].ContextMap()["scope"])
	require.Equal(t, key.String(), created[0].ContextMap()["key"])
	require.Equal(t, "scoped#0", created[0].ContextMap()["component"])

	ctn.SafeGet(ctx, "failing")

	failed := logs.FilterMessage("could not build object").All()
	require.Len(t, failed, 1)
	require.Equal(t, zapcore.WarnLevel, failed[0].Level)

	ctn.SafeGet(ctx, "disabled")
	require.Equal(t, 1, logs.FilterMessage("condition not satisfied").Len())
}

func TestDefaultLogger(t *testing.T) {
	b, _ := NewBuilder()
	ctn, err := b.Build(WithLogger(nil))
	require.Nil(t, err)
	require.NotNil(t, ctn.Logger())
}
