package workers

import (
	"context"

	"github.com/rishabhsai/linkscope/internal/link"
	"github.com/rishabhsai/linkscope/internal/logger"
)

// AccessEvent records that a link's URL was opened.
type AccessEvent struct {
	LinkID string
}

// AccessTracker persists access counts off the request path. Tracking is
// best effort: a full queue drops the event and a failed write is only
// logged, the navigation that triggered it is never blocked.
type AccessTracker struct {
	events chan AccessEvent
	svc    *link.Service
	log    logger.Logger
}

func NewAccessTracker(svc *link.Service, log logger.Logger, queueSize int) *AccessTracker {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &AccessTracker{
		events: make(chan AccessEvent, queueSize),
		svc:    svc,
		log:    log,
	}
}

// Start launches count workers that drain the queue until ctx is cancelled.
func (t *AccessTracker) Start(ctx context.Context, count int) {
	if count <= 0 {
		count = 1
	}
	for i := 0; i < count; i++ {
		go t.run(ctx)
	}
}

func (t *AccessTracker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-t.events:
			if err := t.svc.TrackAccess(ctx, ev.LinkID); err != nil {
				t.log.Warn("access tracking failed",
					logger.String("link_id", ev.LinkID),
					logger.Error(err))
			}
		}
	}
}

// Track enqueues an event without blocking the caller.
func (t *AccessTracker) Track(id string) {
	select {
	case t.events <- AccessEvent{LinkID: id}:
	default:
		t.log.Warn("access queue full, dropping event",
			logger.String("link_id", id))
	}
}
