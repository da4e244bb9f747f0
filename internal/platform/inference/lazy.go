package inference

import (
	"context"
	"sync"
)

// Factory constructs the underlying client. It is invoked at most once
// successfully; a factory error leaves the wrapper uninitialized so the next
// call retries instead of caching the failure.
type Factory func() (Client, error)

// LazyClient defers construction of the wrapped client until the first call.
// Construction is serialized with a mutex, so concurrent first callers block
// and end up sharing a single handle.
type LazyClient struct {
	mu      sync.Mutex
	factory Factory
	client  Client
}

func NewLazyClient(factory Factory) *LazyClient {
	return &LazyClient{factory: factory}
}

func (l *LazyClient) ChatCompletion(ctx context.Context, req Request) (string, error) {
	c, err := l.get()
	if err != nil {
		return "", err
	}
	return c.ChatCompletion(ctx, req)
}

func (l *LazyClient) get() (Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client, nil
	}
	c, err := l.factory()
	if err != nil {
		return nil, err
	}
	l.client = c
	return c, nil
}
