package calendar

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	apperrors "github.com/mucalsync/calsync-server/internal/errors"
)

const primaryCalendarID = "primary"

// Syncer writes events into the user's primary Google Calendar. One attempt
// per user-initiated sync; retries are the caller's decision, not ours.
type Syncer struct {
	endpoint string
}

// SyncerOption modifies a Syncer instance.
type SyncerOption func(*Syncer)

// WithEndpoint overrides the Calendar API base URL (primarily for testing)
func WithEndpoint(endpoint string) SyncerOption {
	return func(s *Syncer) {
		s.endpoint = endpoint
	}
}

func NewSyncer(options ...SyncerOption) *Syncer {
	s := &Syncer{}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Syncer) service(ctx context.Context, accessToken string) (*gcal.Service, error) {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}

	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "[Syncer.service] gcal.NewService")
	}
	return srv, nil
}

// Insert writes one event. Any non-2xx from the provider becomes
// ErrSyncFailed with the provider's error body attached for diagnostics.
func (s *Syncer) Insert(ctx context.Context, accessToken string, event *gcal.Event) (*gcal.Event, error) {
	srv, err := s.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	created, err := srv.Events.Insert(primaryCalendarID, event).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			log.Error().
				Int("status", apiErr.Code).
				Str("summary", event.Summary).
				Msg("calendar event insert rejected")
			return nil, errors.Wrapf(apperrors.ErrSyncFailed, "provider returned %d: %s", apiErr.Code, apiErr.Body)
		}
		return nil, errors.Wrap(err, "[Syncer.Insert] events.insert")
	}

	log.Info().Str("event_id", created.Id).Str("summary", created.Summary).Msg("calendar event created")
	return created, nil
}

// InsertAll writes events in order, stopping at the first failure. The
// error reports how many events landed before the sync broke.
func (s *Syncer) InsertAll(ctx context.Context, accessToken string, events []*gcal.Event) (int, error) {
	for n, event := range events {
		if _, err := s.Insert(ctx, accessToken, event); err != nil {
			return n, errors.Wrapf(err, "event %d of %d", n+1, len(events))
		}
	}
	return len(events), nil
}
