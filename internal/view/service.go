package view

import (
	"context"
	"log/slog"
	"time"

	"dynaform/internal/identity"
	"dynaform/internal/platform/metrics"
	dErrors "dynaform/pkg/domain-errors"

	"github.com/google/uuid"
)

// Window is the trailing interval within which repeat views from the same
// identity are not re-recorded.
const Window = 5 * time.Minute

// FormCounter is the slice of the form store the deduplicator needs.
type FormCounter interface {
	IncrementViewCount(ctx context.Context, formID string) error
}

// RecencyMarker is an optional fast-path recency check. Satisfied by
// RedisRecencyMarker.
type RecencyMarker interface {
	MarkIfAbsent(ctx context.Context, key string, window time.Duration) (bool, error)
}

// Service admits or suppresses view events. Check-and-insert is
// serialized per (form, viewer) key; distinct keys run fully in parallel.
type Service struct {
	events  EventStore
	counter FormCounter
	marker  RecencyMarker
	locks   *keyedMutex
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRecencyMarker installs a fast-path recency check in front of the
// event store.
func WithRecencyMarker(marker RecencyMarker) ServiceOption {
	return func(s *Service) {
		s.marker = marker
	}
}

func NewService(events EventStore, counter FormCounter, m *metrics.Metrics, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		events:  events,
		counter: counter,
		locks:   newKeyedMutex(),
		metrics: m,
		logger:  logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// RegisterView decides whether a form access becomes a new view event.
// Authenticated principals are keyed by user ID, everyone else by IP; a
// request with neither identity is skipped without error. Returns true
// when an event was recorded and the form counter bumped.
func (s *Service) RegisterView(ctx context.Context, formID string, p identity.Principal, remoteIP string, now time.Time) (bool, error) {
	event := Event{
		ID:       uuid.NewString(),
		FormID:   formID,
		ViewedAt: now,
	}
	var viewerKey string
	switch {
	case p.IsAuthenticated():
		event.UserID = p.UserID
		viewerKey = "user:" + p.UserID
	case remoteIP != "":
		event.IPAddress = remoteIP
		viewerKey = "ip:" + remoteIP
	default:
		s.metrics.ViewsUnattributed.Inc()
		s.logger.DebugContext(ctx, "view without user or IP, skipping", "form_id", formID)
		return false, nil
	}

	unlock := s.locks.Lock(formID + "|" + viewerKey)
	defer unlock()

	recent, err := s.seenWithin(ctx, formID, viewerKey, event, now.Add(-Window))
	if err != nil {
		return false, err
	}
	if recent {
		s.metrics.ViewsDeduplicated.Inc()
		s.logger.DebugContext(ctx, "view already recorded recently",
			"form_id", formID,
			"viewer_key", viewerKey,
		)
		return false, nil
	}

	// Insert happens-before the counter increment: a crash between the
	// two leaves an undercount, never an overcount.
	if err := s.events.Append(ctx, event); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record view event")
	}
	if err := s.counter.IncrementViewCount(ctx, formID); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to increment view count")
	}

	s.metrics.ViewsRecorded.Inc()
	return true, nil
}

// seenWithin answers whether the (form, viewer) pair has a view at or
// after since. The marker is a positive cache only: a hit suppresses
// without touching the store, but a miss still has to consult the event
// log, since markers do not survive a Redis restart or eviction and
// trusting an absent one would re-admit a recent view and over-count.
func (s *Service) seenWithin(ctx context.Context, formID, viewerKey string, event Event, since time.Time) (bool, error) {
	if s.marker != nil {
		fresh, err := s.marker.MarkIfAbsent(ctx, formID+"|"+viewerKey, Window)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "recency marker unavailable, falling back to store",
				"error", err.Error(),
			)
		case !fresh:
			return true, nil
		}
	}

	var (
		recent *Event
		err    error
	)
	if event.ByUser() {
		recent, err = s.events.MostRecentByFormAndUser(ctx, formID, event.UserID, since)
	} else {
		recent, err = s.events.MostRecentByFormAndIP(ctx, formID, event.IPAddress, since)
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check recent views")
	}
	return recent != nil, nil
}
