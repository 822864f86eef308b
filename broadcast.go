package lineindex

import (
	"context"

	"github.com/guiguan/caster"
)

// LineEventKind tells what happened to a line.
type LineEventKind int8

// Kinds of line events.
const (
	LineInserted LineEventKind = iota
	LineRemoved
	LinesRebuilt
)

func (k LineEventKind) String() string {
	switch k {
	case LineInserted:
		return "inserted"
	case LineRemoved:
		return "removed"
	}
	return "rebuilt"
}

// LineEvent is published by a Broadcaster for every structural change of
// the line index.
type LineEvent struct {
	Kind  LineEventKind
	Line  LineID   // zero for LinesRebuilt
	Index int      // index of an inserted line, -1 otherwise
	Data  LineData // length information at the time of the event
}

// Broadcaster is a Delegate which publishes LineEvents to subscribers,
// e.g. view caches running in their own goroutines.
//
// A non-blocking broadcaster drops events for subscribers which are not
// ready to receive. A blocking one waits for all subscribers, stalling the
// edit in progress.
type Broadcaster struct {
	cast     *caster.Caster
	blocking bool
}

var _ Delegate = (*Broadcaster)(nil)

// NewBroadcaster creates a broadcaster. It is closed when ctx is done, or
// when Close is called. ctx may be nil.
func NewBroadcaster(ctx context.Context, blocking bool) *Broadcaster {
	return &Broadcaster{
		cast:     caster.New(ctx),
		blocking: blocking,
	}
}

// Subscribe returns a channel of line events, buffered with capacity. The
// channel is closed when either ctx or the broadcaster is done. It returns
// false if the broadcaster is already closed. ctx may be nil.
func (b *Broadcaster) Subscribe(ctx context.Context, capacity uint) (<-chan LineEvent, bool) {
	if ctx == nil {
		ctx = context.Background()
	}
	sub, _ := b.cast.Sub(ctx, capacity)
	select {
	case <-b.cast.Done(): // sub is closed or will be closed shortly
		return nil, false
	default:
	}
	events := make(chan LineEvent, capacity)
	go func() {
		defer close(events)
		for msg := range sub {
			ev, ok := msg.(LineEvent)
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				// keep the caster from blocking on us until it drops the subscription
				for range sub {
				}
				return
			}
		}
	}()
	return events, true
}

// Close stops the broadcaster and closes all subscriber channels.
func (b *Broadcaster) Close() {
	b.cast.Close()
}

func (b *Broadcaster) publish(ev LineEvent) {
	if b.blocking {
		b.cast.Pub(ev)
		return
	}
	if !b.cast.TryPub(ev) {
		tracer().Debugf("lineindex: line event %s not delivered to all subscribers", ev.Kind)
	}
}

// DidInsertLine is part of interface Delegate.
func (b *Broadcaster) DidInsertLine(line Line) {
	b.publish(LineEvent{Kind: LineInserted, Line: line.ID(), Index: line.Index(), Data: line.Data()})
}

// DidRemoveLine is part of interface Delegate.
func (b *Broadcaster) DidRemoveLine(id LineID, last LineData) {
	b.publish(LineEvent{Kind: LineRemoved, Line: id, Index: -1, Data: last})
}

// DidRebuild is part of interface Delegate.
func (b *Broadcaster) DidRebuild() {
	b.publish(LineEvent{Kind: LinesRebuilt, Index: -1})
}
