package di

import (
	"context"
	"sync/atomic"
)

type mockObject struct {
	ID     int
	Closed bool
}

// countingBuild returns a BuildFunc creating *mockObject with increasing IDs.
func countingBuild(counter *int64) BuildFunc {
	return func(ctx context.Context, ctn *Container) (interface{}, error) {
		return &mockObject{ID: int(atomic.AddInt64(counter, 1))}, nil
	}
}

func nilBuild(ctx context.Context, ctn *Container) (interface{}, error) {
	return nil, nil
}
