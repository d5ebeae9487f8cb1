// FILE: internal/service/waiter.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second
)

// WaitRegistry parks long-polling clients until their game changes
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string]map[*Waiter]struct{} // gameID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

// Waiter is one client parked on a game at a known version
type Waiter struct {
	gameID  string
	version int
	notify  chan struct{} // Buffered, a single wakeup is enough
}

func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string]map[*Waiter]struct{}),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// Register parks a waiter; it must be passed to Wait afterwards
func (w *WaitRegistry) Register(gameID string, version int) *Waiter {
	w.mu.Lock()
	defer w.mu.Unlock()

	req := &Waiter{
		gameID:  gameID,
		version: version,
		notify:  make(chan struct{}, 1),
	}
	if w.closed {
		req.notify <- struct{}{}
		return req
	}

	if w.waiters[gameID] == nil {
		w.waiters[gameID] = make(map[*Waiter]struct{})
	}
	w.waiters[gameID][req] = struct{}{}
	w.wg.Add(1)
	return req
}

// Wait blocks until notified, timed out, cancelled or shut down. It reports
// whether the wakeup came from a change to the game.
func (w *WaitRegistry) Wait(ctx context.Context, req *Waiter) bool {
	w.mu.Lock()
	_, tracked := w.waiters[req.gameID][req]
	w.mu.Unlock()
	if !tracked {
		select {
		case <-req.notify:
		default:
		}
		return false
	}
	defer w.wg.Done()
	defer w.remove(req)

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	select {
	case <-req.notify:
		return true
	case <-timer.C:
	case <-ctx.Done():
		// Client disconnected
	case <-w.shutdown:
	}
	return false
}

// NotifyGame wakes every client whose version is behind
func (w *WaitRegistry) NotifyGame(gameID string, version int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for req := range w.waiters[gameID] {
		if req.version == version {
			continue
		}
		select {
		case req.notify <- struct{}{}:
		default:
			// Already woken
		}
	}
}

// RemoveGame wakes all waiters for a game (called before game deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for req := range w.waiters[gameID] {
		select {
		case req.notify <- struct{}{}:
		default:
		}
	}
}

// Pending reports how many clients are parked on a game
func (w *WaitRegistry) Pending(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown releases every waiter and waits for them to return
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.shutdown)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

func (w *WaitRegistry) remove(req *Waiter) {
	w.mu.Lock()
	defer w.mu.Unlock()

	set := w.waiters[req.gameID]
	delete(set, req)
	if len(set) == 0 {
		delete(w.waiters, req.gameID)
	}
}
