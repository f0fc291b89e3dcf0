package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/pathwatch/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Consumer = (*Stream)(nil)
	_ ports.Consumer = Fanout(nil)
)

// Stream writes each update as one JSON line.
type Stream struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewStream creates a Stream writing to w.
func NewStream(w io.Writer) *Stream {
	return &Stream{enc: json.NewEncoder(w)}
}

// Deliver writes update followed by a newline.
func (s *Stream) Deliver(_ context.Context, update domain.WorkspaceUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(update); err != nil {
		return zerr.Wrap(err, "failed to write workspace update")
	}
	return nil
}

// Fanout delivers each update to every consumer in order. All consumers are
// tried; their errors are joined.
type Fanout []ports.Consumer

// Deliver implements ports.Consumer.
func (f Fanout) Deliver(ctx context.Context, update domain.WorkspaceUpdate) error {
	var errs []error
	for _, c := range f {
		if err := c.Deliver(ctx, update); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
