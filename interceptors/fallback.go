package interceptors

import (
	"github.com/paullo612/di"
)

// Fallback calls fn when the rest of the chain fails.
// What fn returns replaces the result of the invocation.
func Fallback(fn func(inv *di.Invocation, err error) (interface{}, error)) di.Interceptor {
	return di.InterceptorFunc(func(inv *di.Invocation) (interface{}, error) {
		res, err := inv.Proceed()
		if err != nil {
			return fn(inv, err)
		}
		return res, nil
	})
}

// FallbackValue returns value instead of the error when the rest of the chain fails.
func FallbackValue(value interface{}) di.Interceptor {
	return Fallback(func(*di.Invocation, error) (interface{}, error) {
		return value, nil
	})
}

// Retry runs the rest of the chain until it succeeds, at most attempts times.
// If retryable is not nil, only the errors it accepts are retried.
// The last error is returned.
func Retry(attempts int, retryable func(err error) bool) di.Interceptor {
	if attempts < 1 {
		attempts = 1
	}

	return di.InterceptorFunc(func(inv *di.Invocation) (res interface{}, err error) {
		for i := 0; i < attempts; i++ {
			res, err = inv.Proceed()
			if err == nil {
				return res, nil
			}
			if retryable != nil && !retryable(err) {
				return nil, err
			}
		}
		return nil, err
	})
}
