// Package sequencer runs asynchronous work strictly one task at a time, in submission order.
package sequencer

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/pathwatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// Task is a unit of sequenced work. A returned error is logged and
// discarded; it never stops the tasks queued behind it.
type Task func(ctx context.Context) error

type job struct {
	name string
	run  Task
}

// Sequencer executes submitted tasks on a single worker goroutine.
//
// Tasks run in the exact order they were submitted and never overlap, even
// when a task blocks on I/O. A failing or panicking task only terminates
// itself. Queued tasks are never cancelled.
type Sequencer struct {
	logger ports.Logger

	mu     sync.Mutex
	queue  []job
	closed bool

	wake chan struct{}
	done chan struct{}
}

// New creates a Sequencer and starts its worker.
func New(logger ports.Logger) *Sequencer {
	s := &Sequencer{
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.loop()
	return s
}

// Submit appends a task to the queue. It never blocks.
// It returns false if the sequencer has been closed and the task was dropped.
func (s *Sequencer) Submit(name string, task Task) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn(fmt.Sprintf("sequencer closed, dropping task %q", name))
		return false
	}
	s.queue = append(s.queue, job{name: name, run: task})
	s.mu.Unlock()

	s.signal()
	return true
}

// Barrier blocks until every task submitted before the call has finished.
func (s *Sequencer) Barrier(ctx context.Context) error {
	reached := make(chan struct{})
	if !s.Submit("barrier", func(context.Context) error {
		close(reached)
		return nil
	}) {
		return domain.ErrSequencerClosed
	}

	select {
	case <-reached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of tasks waiting to run.
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close stops accepting new tasks. Tasks already queued still run;
// the worker exits once the queue is empty.
func (s *Sequencer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
}

// Wait blocks until the worker has exited after Close.
func (s *Sequencer) Wait() {
	<-s.done
}

func (s *Sequencer) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Sequencer) loop() {
	defer close(s.done)

	for {
		j, ok := s.next()
		if !ok {
			return
		}
		s.run(j)
	}
}

// next pops the head of the queue, sleeping while it is empty.
// It reports false once the sequencer is closed and drained.
func (s *Sequencer) next() (job, bool) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			j := s.queue[0]
			s.queue[0] = job{}
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return j, true
		}
		if s.closed {
			s.mu.Unlock()
			return job{}, false
		}
		s.mu.Unlock()

		<-s.wake
	}
}

func (s *Sequencer) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(zerr.With(zerr.With(domain.ErrTaskPanicked, "task", j.name), "panic", fmt.Sprint(r)))
		}
	}()

	if err := j.run(context.Background()); err != nil {
		s.logger.Error(zerr.With(err, "task", j.name))
	}
}
