// Package lifecycle exposes remote sync events as a lifecycle.Source so a
// lifecycle supervisor can observe push and pull outcomes.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

type syncSource struct {
	events <-chan remotesync.Event
	out    chan lifecycle.Event
}

// NewSource bridges a sync event channel, typically the one returned by
// remotesync.ChannelReporter.Events, to a lifecycle.Source.
func NewSource(events <-chan remotesync.Event) lifecycle.Source {
	return &syncSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *syncSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx ends or the input channel closes, then
// closes the output channel.
func (s *syncSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
