package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pathwatch/internal/core/ports"
)

// ProberNodeID is the unique identifier for the file prober Graft node.
const ProberNodeID graft.ID = "adapter.fs.prober"

func init() {
	graft.Register(graft.Node[ports.FileProber]{
		ID:        ProberNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileProber, error) {
			return NewProber(), nil
		},
	})
}
