// Package oplock serializes the process-wide operations that must never
// overlap: a scan and a quarantine batch both mutate or read large parts of
// the same tree, so only one named operation runs at a time.
package oplock

import (
	"fmt"
	"sync"
)

// BusyError reports that another operation currently holds the lock.
type BusyError struct {
	Holder string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("operation rejected: %s already in progress", e.Holder)
}

// Lock is a non-blocking, named mutual-exclusion lock. The zero value is
// ready to use.
type Lock struct {
	mu     sync.Mutex
	holder string
}

// TryAcquire attempts to take the lock for the named operation. On success
// it returns a release function; otherwise a *BusyError naming the holder.
func (l *Lock) TryAcquire(op string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.holder != "" {
		return nil, &BusyError{Holder: l.holder}
	}
	l.holder = op

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.holder = ""
	}, nil
}

// Holder returns the name of the operation currently holding the lock, or
// the empty string when idle.
func (l *Lock) Holder() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holder
}
