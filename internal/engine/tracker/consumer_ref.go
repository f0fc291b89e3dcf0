package tracker

import (
	"sync/atomic"

	"go.trai.ch/pathwatch/internal/core/ports"
)

// ConsumerRef is a releasable reference from the tracker back to the
// consumer of its updates. Once released, deliveries are skipped.
type ConsumerRef struct {
	ptr atomic.Pointer[consumerHolder]
}

type consumerHolder struct {
	consumer ports.Consumer
}

// NewConsumerRef returns a live reference to c.
func NewConsumerRef(c ports.Consumer) *ConsumerRef {
	r := &ConsumerRef{}
	if c != nil {
		r.ptr.Store(&consumerHolder{consumer: c})
	}
	return r
}

// Load returns the consumer if it has not been released.
func (r *ConsumerRef) Load() (ports.Consumer, bool) {
	if r == nil {
		return nil, false
	}
	h := r.ptr.Load()
	if h == nil {
		return nil, false
	}
	return h.consumer, true
}

// Release drops the reference. It is safe to call more than once.
func (r *ConsumerRef) Release() {
	if r != nil {
		r.ptr.Store(nil)
	}
}
