package cardform

import (
	"errors"
	"sync"
)

var ErrLoopStopped = errors.New("form loop stopped")

// Loop runs posted functions one at a time on a single goroutine. It is the
// owning execution context of a Form.
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

// NewLoop starts the loop goroutine. buffer sizes the queue of posted work.
func NewLoop(buffer int) *Loop {
	l := &Loop{
		tasks:  make(chan func(), buffer),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.exited)
	for {
		select {
		case <-l.done:
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn and returns without waiting. It reports false once the loop
// has been stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case <-l.done:
		return false
	case l.tasks <- fn:
		return true
	}
}

// Do runs fn on the loop and waits for it to return. It must not be called
// from the loop goroutine itself.
func (l *Loop) Do(fn func()) error {
	ran := make(chan struct{})
	if !l.Post(func() {
		fn()
		close(ran)
	}) {
		return ErrLoopStopped
	}
	select {
	case <-ran:
		return nil
	case <-l.exited:
		select {
		case <-ran:
			return nil
		default:
			return ErrLoopStopped
		}
	}
}

// Stop ends the loop after the function currently running, if any, returns.
// Queued functions that have not started are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
	<-l.exited
}
