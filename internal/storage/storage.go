// Package storage keeps profile pictures either on local disk or in S3.
package storage

import (
	"context"
	"fmt"
)

// Service stores profile pictures and resolves the URL clients load them from.
type Service interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// EnsureObject writes the output of render under key unless an object is
// already stored there. It reports whether it wrote anything.
func EnsureObject(ctx context.Context, svc Service, key, contentType string, render func() ([]byte, error)) (bool, error) {
	ok, err := svc.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", key, err)
	}
	if ok {
		return false, nil
	}
	data, err := render()
	if err != nil {
		return false, fmt.Errorf("render %s: %w", key, err)
	}
	if err := svc.Put(ctx, key, data, contentType); err != nil {
		return false, err
	}
	return true, nil
}
