package errutil

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// Handle logs an unexpected error and reports it to Sentry if a client is
// configured. It returns the Sentry event ID, or an empty string when the
// error was not sent.
func Handle(ctx context.Context, msg string, err error) string {
	if err == nil {
		return ""
	}

	logger := ctxlog.From(ctx)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	var eventID string
	if hub.Client() != nil {
		if id := hub.CaptureException(err); id != nil {
			eventID = string(*id)
		}
	}

	logger.Error(msg,
		"error", err,
		"sentry_event_id", eventID,
	)
	return eventID
}
