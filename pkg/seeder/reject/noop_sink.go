package reject

import (
	"context"

	port "github.com/tigerroll/tanemaki/pkg/seeder/core/port"
)

// noopSink discards rejected rows. Used when the reject archive is disabled.
type noopSink struct{}

var _ port.RejectSink = (*noopSink)(nil)

// NewNoopSink returns a RejectSink that drops everything it receives.
func NewNoopSink() port.RejectSink { return &noopSink{} }

func (n *noopSink) Open(ctx context.Context, header []string) error { return nil }

func (n *noopSink) Append(ctx context.Context, line int, reason string, row []string) error {
	return nil
}

func (n *noopSink) Close(ctx context.Context) error { return nil }
