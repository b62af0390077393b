package handlers

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/middleware"
)

// fail maps err onto the error taxonomy, logs it and reports server side
// failures to Sentry.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, tags map[string]string) {
	status, msg, details := domain.Describe(err)
	rid := middleware.RequestIDFromContext(r.Context())
	ev := a.Logger.Warn()
	if status >= http.StatusInternalServerError {
		ev = a.Logger.Error()
		a.capture(r, err, rid, tags)
	}
	ev = ev.Err(err).Str("request_id", rid).Int("status", status)
	for k, v := range tags {
		ev = ev.Str(k, v)
	}
	ev.Msg(msg)
	body := errorBody{Error: msg, Details: details}
	var gen *domain.GenerationError
	if errors.As(err, &gen) {
		body.Reason = gen.Reason
	}
	a.json(w, status, body)
}

func (a *App) capture(r *http.Request, err error, rid string, tags map[string]string) {
	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("request_id", rid)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}
