package pool

import "time"

// Observer receives pool events. Implementations must be safe for
// concurrent use and must not call back into the pool.
type Observer interface {
	ObserveAcquire(pool string, wait time.Duration, err error)
	ObserveCreate(pool string, err error)
	ObserveDestroy(pool string, reason string)
}

type nopObserver struct{}

func (nopObserver) ObserveAcquire(string, time.Duration, error) {}
func (nopObserver) ObserveCreate(string, error)                 {}
func (nopObserver) ObserveDestroy(string, string)               {}
