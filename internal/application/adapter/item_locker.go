// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// ItemLocker serializes mutations of the same budget item.
type ItemLocker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// The returned function releases the lock.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
