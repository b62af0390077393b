package infra

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures the global Sentry client when a DSN is present. The
// returned flush func is safe to defer even when Sentry is disabled.
func InitSentry(cfg *Config) (func(), error) {
	if cfg.SentryDSN == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		Release:          "gele-tryon@" + Version,
		AttachStacktrace: true,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// Version is overridden at build time with -ldflags.
var Version = "dev"
